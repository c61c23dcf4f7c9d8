package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

const DefaultReprocessMinDate = "2010-01-01"

type ReprocessInput struct {
	MinDate string
	DryRun  bool
}

type ReprocessResult struct {
	Removed      int
	Kept         int
	NamesChanged int
	Earliest     string
}

// ReprocessService re-applies the current naming rules to an existing dataset.
type ReprocessService struct {
	repo   match.Repository
	logger *logging.Logger
}

func NewReprocessService(repo match.Repository, logger *logging.Logger) *ReprocessService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReprocessService{repo: repo, logger: logger}
}

func (s *ReprocessService) Run(ctx context.Context, input ReprocessInput) (ReprocessResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReprocessService.Run")
	defer span.End()

	minDate := input.MinDate
	if minDate == "" {
		minDate = DefaultReprocessMinDate
	}
	if _, err := time.Parse(isoDateLayout, minDate); err != nil {
		return ReprocessResult{}, fmt.Errorf("%w: min date %q must be YYYY-MM-DD", ErrInvalidInput, minDate)
	}

	matches, err := s.repo.Load(ctx)
	if err != nil {
		return ReprocessResult{}, fmt.Errorf("load dataset: %w", err)
	}

	var result ReprocessResult
	kept := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if m.Date < minDate {
			result.Removed++
			continue
		}
		kept = append(kept, m)
		if result.Earliest == "" || m.Date < result.Earliest {
			result.Earliest = m.Date
		}
	}
	result.Kept = len(kept)
	s.logger.InfoContext(ctx, "removed matches before cutoff",
		"min_date", minDate,
		"removed", result.Removed,
		"before", len(matches),
		"after", len(kept),
	)

	for i := range kept {
		for _, side := range match.Sides {
			lineup := kept[i].Lineup(side)
			for j := range lineup.Players {
				p := &lineup.Players[j]
				previous := p.LastName

				lastName, normalized, alternates := deriveNames(p.Name)
				p.LastName = lastName
				p.LastNameNormalized = normalized
				p.AlternateNames = nil
				if len(alternates) > 0 {
					p.AlternateNames = alternates
				}

				if p.LastName != previous {
					result.NamesChanged++
					s.logger.InfoContext(ctx, "last name changed",
						"name", p.Name,
						"previous", previous,
						"last_name", p.LastName,
					)
				}
			}
		}
	}

	if input.DryRun {
		return result, nil
	}
	if err := s.repo.Save(ctx, kept); err != nil {
		return result, fmt.Errorf("save dataset: %w", err)
	}

	s.logger.InfoContext(ctx, "reprocessed dataset",
		"kept", result.Kept,
		"names_changed", result.NamesChanged,
		"earliest", result.Earliest,
	)
	return result, nil
}
