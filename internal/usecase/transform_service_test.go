package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

func rawEleven(prefix string) []player.RawPlayer {
	out := make([]player.RawPlayer, 0, match.LineupSize)
	for i := 0; i < match.LineupSize; i++ {
		out = append(out, player.RawPlayer{
			Name:        fmt.Sprintf("%s Player%02d", prefix, i+1),
			ShirtNumber: i + 1,
			Nationality: "England",
			BirthDate:   "1995-06-15",
		})
	}
	return out
}

func sampleRawMatch(id string) match.RawMatch {
	return match.RawMatch{
		ID:         id,
		Date:       "2023-08-12",
		Season:     "2023-2024",
		HomeTeam:   "Arsenal",
		AwayTeam:   "Nottingham Forest",
		Score:      "2-1",
		HomeLineup: &match.RawLineup{Formation: "4-3-3", Players: rawEleven("Home")},
		AwayLineup: &match.RawLineup{Formation: "5-4-1", Players: rawEleven("Away")},
	}
}

func TestTransformService_TransformMatch(t *testing.T) {
	t.Parallel()

	svc := NewTransformService(logging.NewNop())
	raw := sampleRawMatch("abc123")
	raw.HomeLineup.Players[0] = player.RawPlayer{Name: "Kevin De Bruyne", ShirtNumber: 17, Nationality: "Belgium", BirthDate: "1991-06-28"}
	raw.HomeLineup.Players[10] = player.RawPlayer{Name: "Alex Oxlade-Chamberlain", ShirtNumber: 15, Nationality: "Atlantis"}

	got, err := svc.TransformMatch(raw)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	if got.ID != "abc123" || got.HomeTeam != "Arsenal" || got.Score != "2-1" {
		t.Fatalf("unexpected match header: %+v", got)
	}
	if got.HomeLineup.Formation != "4-3-3" || got.AwayLineup.Formation != "5-4-1" {
		t.Fatalf("formations not preserved: %s / %s", got.HomeLineup.Formation, got.AwayLineup.Formation)
	}

	first := got.HomeLineup.Players[0]
	if first.LastName != "De Bruyne" || first.LastNameNormalized != "de bruyne" {
		t.Fatalf("unexpected last name: %+v", first)
	}
	if first.Age != 32 {
		t.Fatalf("expected age=32, got=%d", first.Age)
	}
	if first.Position != player.PositionGoalkeeper {
		t.Fatalf("expected slot 0 to be GK, got=%s", first.Position)
	}
	if first.NationalityFlag == "" {
		t.Fatalf("expected flag for Belgium")
	}
	if first.AlternateNames != nil {
		t.Fatalf("expected no alternates, got=%v", first.AlternateNames)
	}

	last := got.HomeLineup.Players[10]
	if last.Position != player.PositionForward {
		t.Fatalf("expected slot 10 to be FWD, got=%s", last.Position)
	}
	if len(last.AlternateNames) != 1 || last.AlternateNames[0] != "Chamberlain" {
		t.Fatalf("unexpected alternates: %v", last.AlternateNames)
	}
	if last.Age != 0 || last.NationalityFlag != "" {
		t.Fatalf("expected zero age and empty flag, got age=%d flag=%q", last.Age, last.NationalityFlag)
	}
}

func TestTransformService_PositionsFollowFormation(t *testing.T) {
	t.Parallel()

	svc := NewTransformService(logging.NewNop())
	got, err := svc.TransformMatch(sampleRawMatch("pos"))
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	for _, side := range match.Sides {
		lineup := got.Lineup(side)
		want, err := formation.ToPositions(lineup.Formation)
		if err != nil {
			t.Fatalf("formation %s: %v", lineup.Formation, err)
		}
		if len(lineup.Players) != match.LineupSize {
			t.Fatalf("expected %d players, got=%d", match.LineupSize, len(lineup.Players))
		}
		for i, p := range lineup.Players {
			if p.Position != want[i] {
				t.Fatalf("%s slot %d: expected %s, got=%s", side, i, want[i], p.Position)
			}
			if p.LastNameNormalized == "" {
				t.Fatalf("%s slot %d: empty lastNameNormalized", side, i)
			}
		}
	}
}

func TestTransformService_DiscardsIncompleteMatch(t *testing.T) {
	t.Parallel()

	svc := NewTransformService(logging.NewNop())

	tests := []struct {
		name    string
		mutate  func(*match.RawMatch)
		wantErr error
	}{
		{name: "missing formation", mutate: func(m *match.RawMatch) { m.HomeLineup.Formation = "" }, wantErr: match.ErrIncompleteRecord},
		{name: "missing lineup", mutate: func(m *match.RawMatch) { m.AwayLineup = nil }, wantErr: match.ErrIncompleteRecord},
		{name: "ten players", mutate: func(m *match.RawMatch) { m.AwayLineup.Players = m.AwayLineup.Players[:10] }, wantErr: match.ErrIncompleteRecord},
		{name: "bad formation total", mutate: func(m *match.RawMatch) { m.HomeLineup.Formation = "4-4-4" }, wantErr: formation.ErrInvalidFormat},
		{name: "missing date", mutate: func(m *match.RawMatch) { m.Date = "" }, wantErr: match.ErrIncompleteRecord},
		{name: "malformed date", mutate: func(m *match.RawMatch) { m.Date = "12/08/2023" }, wantErr: match.ErrIncompleteRecord},
		{name: "missing team", mutate: func(m *match.RawMatch) { m.AwayTeam = "" }, wantErr: match.ErrIncompleteRecord},
		{name: "blank player name", mutate: func(m *match.RawMatch) { m.HomeLineup.Players[3].Name = "  " }, wantErr: match.ErrIncompleteRecord},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := sampleRawMatch("bad")
			tt.mutate(&raw)
			_, err := svc.TransformMatch(raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransformService_TransformAll_AccountsForEveryInput(t *testing.T) {
	t.Parallel()

	svc := NewTransformService(logging.NewNop())
	broken := sampleRawMatch("m2")
	broken.HomeLineup.Players = broken.HomeLineup.Players[:9]

	raws := []match.RawMatch{sampleRawMatch("m1"), broken, sampleRawMatch("m3")}
	result := svc.TransformAll(context.Background(), raws)

	if len(result.Matches)+len(result.Dropped) != len(raws) {
		t.Fatalf("expected every input accounted for, got matches=%d dropped=%d", len(result.Matches), len(result.Dropped))
	}
	if len(result.Matches) != 2 || result.Matches[0].ID != "m1" || result.Matches[1].ID != "m3" {
		t.Fatalf("unexpected kept matches: %+v", result.Matches)
	}
	if len(result.Dropped) != 1 || result.Dropped[0].ID != "m2" {
		t.Fatalf("unexpected dropped: %+v", result.Dropped)
	}
}

func TestCalculateAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		birth string
		date  string
		want  int
	}{
		{birth: "1991-06-28", date: "2023-06-27", want: 31},
		{birth: "1991-06-28", date: "2023-06-28", want: 32},
		{birth: "2000-02-29", date: "2021-02-28", want: 20},
		{birth: "2000-02-29", date: "2021-03-01", want: 21},
		{birth: "", date: "2023-06-28", want: 0},
		{birth: "not-a-date", date: "2023-06-28", want: 0},
		{birth: "1991-06-28", date: "", want: 0},
	}
	for _, tt := range tests {
		if got := CalculateAge(tt.birth, tt.date); got != tt.want {
			t.Fatalf("CalculateAge(%q, %q): expected %d, got=%d", tt.birth, tt.date, tt.want, got)
		}
	}
}
