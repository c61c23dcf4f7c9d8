package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

func TestReprocessService_Run(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository(memory.SeedMatches())
	svc := NewReprocessService(repo, logging.NewNop())

	result, err := svc.Run(context.Background(), ReprocessInput{})
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}

	if result.Removed != 1 || result.Kept != 1 {
		t.Fatalf("expected removed=1 kept=1, got removed=%d kept=%d", result.Removed, result.Kept)
	}
	if result.NamesChanged != 2 {
		t.Fatalf("expected 2 changed last names, got=%d", result.NamesChanged)
	}
	if result.Earliest != "2019-10-20" {
		t.Fatalf("unexpected earliest date: %s", result.Earliest)
	}

	saved, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load saved dataset: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != memory.MatchIDSeason2019 {
		t.Fatalf("unexpected saved matches: %+v", saved)
	}

	home := saved[0].HomeLineup.Players
	if home[0].LastName != "de Gea" || home[0].LastNameNormalized != "de gea" {
		t.Fatalf("expected particle surname, got %+v", home[0])
	}
	if home[0].AlternateNames != nil {
		t.Fatalf("expected stale alternates removed, got=%v", home[0].AlternateNames)
	}
	if got := home[4].AlternateNames; len(got) != 1 || got[0] != "Bissaka" {
		t.Fatalf("expected hyphen alternate, got=%v", got)
	}

	away := saved[0].AwayLineup.Players
	if away[3].LastName != "van Dijk" {
		t.Fatalf("expected van Dijk, got=%s", away[3].LastName)
	}
	if away[1].LastNameNormalized != "alexander-arnold" {
		t.Fatalf("expected lower-cased key, got=%s", away[1].LastNameNormalized)
	}
}

func TestReprocessService_Run_CutoffIsInclusive(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository(memory.SeedMatches())
	svc := NewReprocessService(repo, logging.NewNop())

	result, err := svc.Run(context.Background(), ReprocessInput{MinDate: "2009-05-16"})
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}
	if result.Removed != 0 || result.Kept != 2 {
		t.Fatalf("expected removed=0 kept=2, got removed=%d kept=%d", result.Removed, result.Kept)
	}
	if result.Earliest != "2009-05-16" {
		t.Fatalf("unexpected earliest date: %s", result.Earliest)
	}

	result, err = svc.Run(context.Background(), ReprocessInput{MinDate: "2009-05-17"})
	if err != nil {
		t.Fatalf("reprocess failed: %v", err)
	}
	if result.Removed != 1 || result.Earliest != "2019-10-20" {
		t.Fatalf("expected the 2009 match removed, got removed=%d earliest=%s", result.Removed, result.Earliest)
	}
}

func TestReprocessService_Run_DryRunDoesNotSave(t *testing.T) {
	t.Parallel()

	repo := memory.NewMatchRepository(memory.SeedMatches())
	svc := NewReprocessService(repo, logging.NewNop())

	if _, err := svc.Run(context.Background(), ReprocessInput{MinDate: "2000-01-01", DryRun: true}); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if repo.Saves() != 0 {
		t.Fatalf("expected no saves, got=%d", repo.Saves())
	}
}

func TestReprocessService_Run_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewReprocessService(memory.NewMatchRepository(memory.SeedMatches()), logging.NewNop())
	if _, err := svc.Run(context.Background(), ReprocessInput{MinDate: "2010"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	missing := NewReprocessService(memory.NewMatchRepository(nil), logging.NewNop())
	if _, err := missing.Run(context.Background(), ReprocessInput{}); !errors.Is(err, match.ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
}
