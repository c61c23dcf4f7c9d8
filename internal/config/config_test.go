package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatasetPath != "src/data/matches.json" {
		t.Fatalf("unexpected DatasetPath: %q", cfg.DatasetPath)
	}
	if cfg.ScraperRequestDelay != 5*time.Second {
		t.Fatalf("unexpected ScraperRequestDelay: %s", cfg.ScraperRequestDelay)
	}
	if cfg.ScrapePerSeason != 25 {
		t.Fatalf("unexpected ScrapePerSeason: %d", cfg.ScrapePerSeason)
	}
	if len(cfg.ScrapeSeasons) != 20 || cfg.ScrapeSeasons[0] != "2005-2006" || cfg.ScrapeSeasons[19] != "2024-2025" {
		t.Fatalf("unexpected default seasons: %v", cfg.ScrapeSeasons)
	}
	if cfg.FBrefCompetitionID != 9 || cfg.FBrefCompetitionSlug != "Premier-League" {
		t.Fatalf("unexpected competition: %d %s", cfg.FBrefCompetitionID, cfg.FBrefCompetitionSlug)
	}
	if cfg.ReprocessMinDate != "2010-01-01" {
		t.Fatalf("unexpected ReprocessMinDate: %s", cfg.ReprocessMinDate)
	}
	if cfg.LogFormat != logging.FormatConsole {
		t.Fatalf("expected console logs in dev, got %s", cfg.LogFormat)
	}
	if !cfg.ScraperCircuit.Enabled || cfg.ScraperCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected circuit config: %+v", cfg.ScraperCircuit)
	}
	if err := cfg.RequireSportAPI(); err == nil {
		t.Fatalf("expected api source settings to be missing by default")
	}
	if cfg.ServiceName != "lineup-dataset" || cfg.UptraceDSN != "" {
		t.Fatalf("unexpected tracing settings: name=%q dsn=%q", cfg.ServiceName, cfg.UptraceDSN)
	}
}

func TestLoad_ScrapeSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SCRAPE_SEASONS", "2019-2020, 2020-2021")
	t.Setenv("SCRAPE_PER_SEASON", "10")
	t.Setenv("SCRAPE_SEED", "42")
	t.Setenv("SCRAPER_WORKERS", "3")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("FBREF_BASE_URL", "https://fbref.test/")
	t.Setenv("SPORTAPI_BASE_URL", "https://api.test/v1/")
	t.Setenv("SPORTAPI_LEAGUE_ID", "17")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.ScrapeSeasons) != 2 || cfg.ScrapeSeasons[1] != "2020-2021" {
		t.Fatalf("unexpected seasons: %v", cfg.ScrapeSeasons)
	}
	if cfg.ScrapePerSeason != 10 || cfg.ScrapeSeed != 42 || cfg.ScraperWorkers != 3 {
		t.Fatalf("unexpected scrape settings: %+v", cfg)
	}
	if cfg.LogLevel != logging.LevelWarn || cfg.LogFormat != logging.FormatJSON {
		t.Fatalf("unexpected log settings: level=%s format=%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.FBrefBaseURL != "https://fbref.test" || cfg.SportAPIBaseURL != "https://api.test/v1" {
		t.Fatalf("expected trailing slash trimmed: %s %s", cfg.FBrefBaseURL, cfg.SportAPIBaseURL)
	}
	if err := cfg.RequireSportAPI(); err != nil {
		t.Fatalf("unexpected api source error: %v", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SCRAPE_SEASONS":     "2019/2020",
		"SCRAPE_PER_SEASON":  "0",
		"SCRAPER_TIMEOUT":    "0s",
		"SCRAPER_WORKERS":    "-1",
		"REPROCESS_MIN_DATE": "2010",
		"APP_LOG_FORMAT":     "xml",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
