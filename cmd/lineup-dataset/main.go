// Command lineup-dataset builds and maintains the starting-lineup dataset.
//
// Usage:
//
//	lineup-dataset scrape fbref --seasons 2022-2023,2023-2024 --per-season 25
//	lineup-dataset scrape api --seed 42
//	lineup-dataset reprocess --min-date 2010-01-01
//	lineup-dataset validate src/data/matches.json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/lineup-dataset/internal/config"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/infrastructure/repository/jsonfile"
	"github.com/riskibarqy/lineup-dataset/internal/observability"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
)

var errInvalidDataset = errors.New("dataset has validation errors")

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "lineup-dataset",
		Short:         "Starting-lineup dataset tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(reprocessCmd())
	root.AddCommand(validateCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errInvalidDataset) && !errors.Is(err, match.ErrDatasetNotFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type runtime struct {
	cfg    config.Config
	logger *logging.Logger
	repo   *jsonfile.MatchRepository
}

// run loads configuration, installs the process logger and trace exporter,
// and cancels the context on SIGINT or SIGTERM.
func run(name string, fn func(ctx context.Context, rt runtime) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, nil)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing := observability.InitUptrace(cfg, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("flush traces failed", "error", err)
		}
	}()

	ctx, span := otel.Tracer("lineup-dataset/cmd").Start(ctx, "cli."+name)
	defer span.End()

	return fn(ctx, runtime{
		cfg:    cfg,
		logger: logger,
		repo:   jsonfile.NewMatchRepository(cfg.DatasetPath),
	})
}

func reprocessCmd() *cobra.Command {
	var (
		minDate string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Drop old matches and re-derive player names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("reprocess", func(ctx context.Context, rt runtime) error {
				if !cmd.Flags().Changed("min-date") {
					minDate = rt.cfg.ReprocessMinDate
				}

				svc := usecase.NewReprocessService(rt.repo, rt.logger)
				result, err := svc.Run(ctx, usecase.ReprocessInput{MinDate: minDate, DryRun: dryRun})
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Cutoff", "Removed", "Names changed", "Kept", "Earliest"})
				t.AppendRow(table.Row{minDate, result.Removed, result.NamesChanged, result.Kept, result.Earliest})
				if dryRun {
					t.SetCaption("dry run, dataset not written")
				}
				t.SetStyle(table.StyleRounded)
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&minDate, "min-date", usecase.DefaultReprocessMinDate, "Drop matches dated before this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without writing the dataset")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check the dataset against the canonical schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("validate", func(ctx context.Context, rt runtime) error {
				repo := rt.repo
				if len(args) == 1 {
					repo = jsonfile.NewMatchRepository(args[0])
				}
				return validateDataset(ctx, cmd, repo)
			})
		},
	}
}

func validateDataset(ctx context.Context, cmd *cobra.Command, repo *jsonfile.MatchRepository) error {
	report, err := usecase.NewValidationService(repo).Check(ctx, cmd.OutOrStdout(), repo.Path())
	if err != nil {
		return err
	}
	if !report.OK() {
		return errInvalidDataset
	}
	return nil
}
