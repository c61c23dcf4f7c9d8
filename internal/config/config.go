package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/platform/resilience"
)

// Config stores runtime configuration for the dataset tooling.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      string
	UptraceDSN     string

	DatasetPath      string
	ReprocessMinDate string

	ScraperUserAgent    string
	ScraperRequestDelay time.Duration
	ScraperTimeout      time.Duration
	ScraperMaxRetries   int
	ScraperCacheEnabled bool
	ScraperCacheDir     string
	ScraperCacheTTL     time.Duration
	ScraperCircuit      resilience.CircuitBreakerConfig
	ScraperWorkers      int

	ScrapeSeasons   []string
	ScrapePerSeason int
	ScrapeSeed      int64

	FBrefBaseURL         string
	FBrefCompetitionID   int
	FBrefCompetitionSlug string

	SportAPIBaseURL  string
	SportAPIToken    string
	SportAPILeagueID string
}

const defaultUserAgent = "Mozilla/5.0 (compatible; lineup-dataset-scraper/1.0; educational project)"

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := logging.FormatJSON
	if appEnv == EnvDev {
		logFormatDefault = logging.FormatConsole
	}
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logFormatDefault)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	minDate := strings.TrimSpace(getEnv("REPROCESS_MIN_DATE", "2010-01-01"))
	if _, err := time.Parse("2006-01-02", minDate); err != nil {
		return Config{}, fmt.Errorf("parse REPROCESS_MIN_DATE: %w", err)
	}

	requestDelay, err := time.ParseDuration(getEnv("SCRAPER_REQUEST_DELAY", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_REQUEST_DELAY: %w", err)
	}
	if requestDelay < 0 {
		return Config{}, fmt.Errorf("SCRAPER_REQUEST_DELAY must be >= 0")
	}
	timeout, err := time.ParseDuration(getEnv("SCRAPER_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("SCRAPER_TIMEOUT must be > 0")
	}
	maxRetries, err := getEnvAsInt("SCRAPER_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return Config{}, fmt.Errorf("SCRAPER_MAX_RETRIES must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("SCRAPER_CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CACHE_ENABLED: %w", err)
	}
	cacheDir := strings.TrimSpace(getEnv("SCRAPER_CACHE_DIR", ".cache"))
	if cacheEnabled && cacheDir == "" {
		return Config{}, fmt.Errorf("SCRAPER_CACHE_DIR is required when SCRAPER_CACHE_ENABLED=true")
	}
	cacheTTL, err := time.ParseDuration(getEnv("SCRAPER_CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CACHE_TTL: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("SCRAPER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("SCRAPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("SCRAPER_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("SCRAPER_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	workers, err := getEnvAsInt("SCRAPER_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_WORKERS: %w", err)
	}
	if workers <= 0 {
		return Config{}, fmt.Errorf("SCRAPER_WORKERS must be > 0")
	}

	seasons := splitCSV(getEnv("SCRAPE_SEASONS", strings.Join(DefaultSeasons(), ",")))
	for _, season := range seasons {
		if err := validateSeason(season); err != nil {
			return Config{}, fmt.Errorf("parse SCRAPE_SEASONS: %w", err)
		}
	}
	perSeason, err := getEnvAsInt("SCRAPE_PER_SEASON", 25)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_PER_SEASON: %w", err)
	}
	if perSeason <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_PER_SEASON must be > 0")
	}
	seed, err := strconv.ParseInt(strings.TrimSpace(getEnv("SCRAPE_SEED", "0")), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_SEED: %w", err)
	}

	competitionID, err := getEnvAsInt("FBREF_COMPETITION_ID", 9)
	if err != nil {
		return Config{}, fmt.Errorf("parse FBREF_COMPETITION_ID: %w", err)
	}
	if competitionID <= 0 {
		return Config{}, fmt.Errorf("FBREF_COMPETITION_ID must be > 0")
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      strings.TrimSpace(getEnv("SERVICE_NAME", "lineup-dataset")),
		ServiceVersion:   strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		LogLevel:         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:        logFormat,
		UptraceDSN:       strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		DatasetPath:      strings.TrimSpace(getEnv("DATASET_PATH", "src/data/matches.json")),
		ReprocessMinDate: minDate,

		ScraperUserAgent:    strings.TrimSpace(getEnv("SCRAPER_USER_AGENT", defaultUserAgent)),
		ScraperRequestDelay: requestDelay,
		ScraperTimeout:      timeout,
		ScraperMaxRetries:   maxRetries,
		ScraperCacheEnabled: cacheEnabled,
		ScraperCacheDir:     cacheDir,
		ScraperCacheTTL:     cacheTTL,
		ScraperCircuit: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          circuitEnabled,
			FailureThreshold: circuitFailureCount,
			OpenTimeout:      circuitOpenTimeout,
			HalfOpenMaxReq:   circuitHalfOpenMaxReq,
		}),
		ScraperWorkers: workers,

		ScrapeSeasons:   seasons,
		ScrapePerSeason: perSeason,
		ScrapeSeed:      seed,

		FBrefBaseURL:         strings.TrimRight(strings.TrimSpace(getEnv("FBREF_BASE_URL", "https://fbref.com")), "/"),
		FBrefCompetitionID:   competitionID,
		FBrefCompetitionSlug: strings.TrimSpace(getEnv("FBREF_COMPETITION_SLUG", "Premier-League")),

		SportAPIBaseURL:  strings.TrimRight(strings.TrimSpace(getEnv("SPORTAPI_BASE_URL", "")), "/"),
		SportAPIToken:    strings.TrimSpace(getEnv("SPORTAPI_TOKEN", "")),
		SportAPILeagueID: strings.TrimSpace(getEnv("SPORTAPI_LEAGUE_ID", "")),
	}

	return cfg, nil
}

// RequireSportAPI reports the settings the API source cannot run without.
func (c Config) RequireSportAPI() error {
	if c.SportAPIBaseURL == "" {
		return fmt.Errorf("SPORTAPI_BASE_URL is required for the api source")
	}
	if c.SportAPILeagueID == "" {
		return fmt.Errorf("SPORTAPI_LEAGUE_ID is required for the api source")
	}
	return nil
}

// DefaultSeasons lists 2005-2006 through 2024-2025.
func DefaultSeasons() []string {
	out := make([]string, 0, 20)
	for year := 2005; year < 2025; year++ {
		out = append(out, fmt.Sprintf("%d-%d", year, year+1))
	}
	return out
}

func validateSeason(season string) error {
	parts := strings.Split(season, "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid season %q, expected YYYY-YYYY", season)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid season %q, expected YYYY-YYYY", season)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != start+1 {
		return fmt.Errorf("invalid season %q, expected consecutive years", season)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	return logging.ParseLevel(v)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
