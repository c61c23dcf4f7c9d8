package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

const (
	DefaultPerSeason    = 25
	defaultScrapeWorker = 1
	maxScrapeWorker     = 8
)

// MatchRef is a finished fixture found in a season listing.
type MatchRef struct {
	ID       string
	URL      string
	Date     string
	Season   string
	HomeTeam string
	AwayTeam string
	Score    string
}

// MatchSource lists and fetches matches from one upstream provider.
type MatchSource interface {
	Name() string
	ListSeason(ctx context.Context, season string) ([]MatchRef, error)
	FetchMatch(ctx context.Context, ref MatchRef) (match.RawMatch, error)
}

type ScrapeInput struct {
	Seasons   []string
	PerSeason int
	// Seed makes the per-season sample reproducible. Zero picks a time-based seed.
	Seed    int64
	Workers int
}

type ScrapeResult struct {
	Seasons   int
	Collected int
	Written   int
	Dropped   int
	Failed    int
}

// ScrapeService samples matches per season from a source, transforms them
// and replaces the dataset with the result.
type ScrapeService struct {
	source    MatchSource
	transform *TransformService
	repo      match.Repository
	logger    *logging.Logger
}

func NewScrapeService(source MatchSource, transform *TransformService, repo match.Repository, logger *logging.Logger) *ScrapeService {
	if logger == nil {
		logger = logging.Default()
	}
	if transform == nil {
		transform = NewTransformService(logger)
	}
	return &ScrapeService{
		source:    source,
		transform: transform,
		repo:      repo,
		logger:    logger,
	}
}

func (s *ScrapeService) Run(ctx context.Context, input ScrapeInput) (ScrapeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Run")
	defer span.End()

	if s.source == nil || s.repo == nil {
		return ScrapeResult{}, fmt.Errorf("%w: scrape needs a source and a repository", ErrInvalidInput)
	}
	if len(input.Seasons) == 0 {
		return ScrapeResult{}, fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}

	perSeason := input.PerSeason
	if perSeason <= 0 {
		perSeason = DefaultPerSeason
	}
	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := s.logger.With("source", s.source.Name())
	result := ScrapeResult{Seasons: len(input.Seasons)}
	collected := make([]match.RawMatch, 0, perSeason*len(input.Seasons))

	for _, season := range input.Seasons {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		logger.InfoContext(ctx, "processing season", "season", season)
		refs, err := s.source.ListSeason(ctx, season)
		if err != nil {
			logger.WarnContext(ctx, "list season failed", "season", season, "error", err)
			continue
		}
		if len(refs) == 0 {
			logger.WarnContext(ctx, "no matches listed", "season", season)
			continue
		}

		sampled := sampleRefs(rng, refs, perSeason)
		logger.InfoContext(ctx, "sampling matches", "season", season, "listed", len(refs), "sampled", len(sampled))

		raws, failed, err := s.fetchAll(ctx, logger, sampled, input.Workers)
		if err != nil {
			return result, err
		}
		result.Failed += failed
		collected = append(collected, raws...)
	}

	result.Collected = len(collected)
	logger.InfoContext(ctx, "raw matches collected", "count", result.Collected)

	transformed := s.transform.TransformAll(ctx, collected)
	result.Dropped = len(transformed.Dropped)
	if err := s.repo.Save(ctx, transformed.Matches); err != nil {
		return result, fmt.Errorf("save dataset: %w", err)
	}
	result.Written = len(transformed.Matches)

	logger.InfoContext(ctx, "dataset written", "written", result.Written, "dropped", result.Dropped, "failed", result.Failed)
	return result, nil
}

// fetchAll keeps the sample order in its output regardless of which worker
// finishes first. A panic inside a fetch is treated as a failed match.
func (s *ScrapeService) fetchAll(ctx context.Context, logger *logging.Logger, refs []MatchRef, workers int) ([]match.RawMatch, int, error) {
	workerCount := normalizeScrapeWorkerCount(workers, len(refs))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, 0, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	slots := make([]*match.RawMatch, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		i, ref := i, ref
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			logger.InfoContext(ctx, "fetching match",
				"progress", fmt.Sprintf("%d/%d", i+1, len(refs)),
				"date", ref.Date,
				"home_team", ref.HomeTeam,
				"away_team", ref.AwayTeam,
			)

			var (
				raw      match.RawMatch
				fetchErr error
			)
			recovered := panics.Try(func() {
				raw, fetchErr = s.source.FetchMatch(ctx, ref)
			})
			if recovered != nil {
				fetchErr = recovered.AsError()
			}
			if fetchErr != nil {
				logger.ErrorContext(ctx, "fetch match failed", "match_id", ref.ID, "url", ref.URL, "error", fetchErr)
				return
			}
			slots[i] = &raw
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, 0, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	out := make([]match.RawMatch, 0, len(refs))
	failed := 0
	for _, raw := range slots {
		if raw == nil {
			failed++
			continue
		}
		out = append(out, *raw)
	}
	return out, failed, nil
}

// sampleRefs draws n refs without replacement, in draw order.
func sampleRefs(rng *rand.Rand, refs []MatchRef, n int) []MatchRef {
	if n > len(refs) {
		n = len(refs)
	}
	perm := rng.Perm(len(refs))
	out := make([]MatchRef, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, refs[idx])
	}
	return out
}

func normalizeScrapeWorkerCount(requested, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultScrapeWorker
	}
	if workers > maxScrapeWorker {
		workers = maxScrapeWorker
	}
	if tasks > 0 && workers > tasks {
		workers = tasks
	}
	return workers
}
