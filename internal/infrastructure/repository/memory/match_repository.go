package memory

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

// MatchRepository keeps the dataset in memory. A nil seed behaves like a
// dataset that was never written.
type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
	present bool
	saves   int
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	if matches == nil {
		return &MatchRepository{}
	}
	return &MatchRepository{
		matches: cloneMatches(matches),
		present: true,
	}
}

func (r *MatchRepository) Load(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.present {
		return nil, match.ErrDatasetNotFound
	}
	return cloneMatches(r.matches), nil
}

func (r *MatchRepository) LoadRaw(_ context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.present {
		return nil, match.ErrDatasetNotFound
	}
	out := r.matches
	if out == nil {
		out = []match.Match{}
	}
	return sonic.Marshal(out)
}

func (r *MatchRepository) Save(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches = cloneMatches(matches)
	r.present = true
	r.saves++
	return nil
}

// Saves reports how many times Save ran.
func (r *MatchRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}

func cloneMatches(in []match.Match) []match.Match {
	out := make([]match.Match, 0, len(in))
	for _, m := range in {
		m.HomeLineup = cloneLineup(m.HomeLineup)
		m.AwayLineup = cloneLineup(m.AwayLineup)
		out = append(out, m)
	}
	return out
}

func cloneLineup(in match.Lineup) match.Lineup {
	players := make([]player.Player, 0, len(in.Players))
	for _, p := range in.Players {
		if p.AlternateNames != nil {
			p.AlternateNames = append([]string(nil), p.AlternateNames...)
		}
		players = append(players, p)
	}
	in.Players = players
	return in
}
