package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/lineup-dataset/external/fbref"
	"github.com/riskibarqy/lineup-dataset/external/httpfetch"
	"github.com/riskibarqy/lineup-dataset/external/sportapi"
	"github.com/riskibarqy/lineup-dataset/internal/config"
	"github.com/riskibarqy/lineup-dataset/internal/platform/cache"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
)

type scrapeFlags struct {
	seasons   []string
	perSeason int
	seed      int64
	workers   int
}

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Sample matches per season and rebuild the dataset",
	}
	cmd.AddCommand(scrapeFBrefCmd())
	cmd.AddCommand(scrapeAPICmd())
	return cmd
}

func scrapeFBrefCmd() *cobra.Command {
	var flags scrapeFlags
	cmd := &cobra.Command{
		Use:   "fbref",
		Short: "Scrape lineups from FBref match reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("scrape.fbref", func(ctx context.Context, rt runtime) error {
				fetcher, err := newFetcher(rt.cfg, rt.logger, "fbref", ".html", nil)
				if err != nil {
					return err
				}
				source, err := fbref.NewSource(fbref.SourceConfig{
					Fetcher:         fetcher,
					BaseURL:         rt.cfg.FBrefBaseURL,
					CompetitionID:   rt.cfg.FBrefCompetitionID,
					CompetitionSlug: rt.cfg.FBrefCompetitionSlug,
					Logger:          rt.logger,
				})
				if err != nil {
					return err
				}
				return runScrape(ctx, cmd, rt, source, flags)
			})
		},
	}
	bindScrapeFlags(cmd, &flags)
	return cmd
}

func scrapeAPICmd() *cobra.Command {
	var flags scrapeFlags
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Scrape lineups from the JSON sports API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("scrape.api", func(ctx context.Context, rt runtime) error {
				if err := rt.cfg.RequireSportAPI(); err != nil {
					return err
				}

				headers := map[string]string{"Accept": "application/json"}
				if rt.cfg.SportAPIToken != "" {
					headers["Authorization"] = "Bearer " + rt.cfg.SportAPIToken
				}
				fetcher, err := newFetcher(rt.cfg, rt.logger, "sportapi", ".json", headers)
				if err != nil {
					return err
				}
				source, err := sportapi.NewSource(sportapi.SourceConfig{
					Fetcher:  fetcher,
					BaseURL:  rt.cfg.SportAPIBaseURL,
					LeagueID: rt.cfg.SportAPILeagueID,
					Logger:   rt.logger,
				})
				if err != nil {
					return err
				}
				return runScrape(ctx, cmd, rt, source, flags)
			})
		},
	}
	bindScrapeFlags(cmd, &flags)
	return cmd
}

func bindScrapeFlags(cmd *cobra.Command, flags *scrapeFlags) {
	cmd.Flags().StringSliceVar(&flags.seasons, "seasons", nil, "Seasons to sample, e.g. 2022-2023 (default SCRAPE_SEASONS)")
	cmd.Flags().IntVar(&flags.perSeason, "per-season", 0, "Matches sampled per season (default SCRAPE_PER_SEASON)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "Sampling seed; 0 picks one from the clock (default SCRAPE_SEED)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent match fetches (default SCRAPER_WORKERS)")
}

func runScrape(ctx context.Context, cmd *cobra.Command, rt runtime, source usecase.MatchSource, flags scrapeFlags) error {
	input := usecase.ScrapeInput{
		Seasons:   rt.cfg.ScrapeSeasons,
		PerSeason: rt.cfg.ScrapePerSeason,
		Seed:      rt.cfg.ScrapeSeed,
		Workers:   rt.cfg.ScraperWorkers,
	}
	if len(flags.seasons) > 0 {
		input.Seasons = flags.seasons
	}
	if flags.perSeason > 0 {
		input.PerSeason = flags.perSeason
	}
	if cmd.Flags().Changed("seed") {
		input.Seed = flags.seed
	}
	if flags.workers > 0 {
		input.Workers = flags.workers
	}

	svc := usecase.NewScrapeService(source, usecase.NewTransformService(rt.logger), rt.repo, rt.logger)
	result, err := svc.Run(ctx, input)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(source.Name() + " scrape")
	t.AppendHeader(table.Row{"Seasons", "Collected", "Failed", "Discarded", "Written"})
	t.AppendRow(table.Row{result.Seasons, result.Collected, result.Failed, result.Dropped, result.Written})
	t.AppendFooter(table.Row{"Dataset", rt.repo.Path()})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// newFetcher builds the paced client for one source. Each source keeps its
// own cache directory so HTML and JSON bodies never share keys.
func newFetcher(cfg config.Config, logger *logging.Logger, name, ext string, headers map[string]string) (*httpfetch.Client, error) {
	var store *cache.DiskStore
	if cfg.ScraperCacheEnabled {
		var err error
		store, err = cache.NewDiskStore(filepath.Join(cfg.ScraperCacheDir, name), ext, cfg.ScraperCacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("open %s cache: %w", name, err)
		}
	}

	return httpfetch.NewClient(httpfetch.Config{
		UserAgent:      cfg.ScraperUserAgent,
		Headers:        headers,
		Timeout:        cfg.ScraperTimeout,
		RequestDelay:   cfg.ScraperRequestDelay,
		MaxRetries:     cfg.ScraperMaxRetries,
		Cache:          store,
		CircuitBreaker: cfg.ScraperCircuit,
		Logger:         logger.With("source", name),
	}), nil
}
