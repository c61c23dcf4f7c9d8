package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/nationality"
	"github.com/riskibarqy/lineup-dataset/internal/domain/naming"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

const isoDateLayout = "2006-01-02"

// TransformService turns intermediate source records into canonical matches.
type TransformService struct {
	validate *validator.Validate
	logger   *logging.Logger
}

func NewTransformService(logger *logging.Logger) *TransformService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransformService{
		validate: validator.New(),
		logger:   logger,
	}
}

// DroppedRecord is an input the pipeline refused, with the reason.
type DroppedRecord struct {
	ID     string
	Reason error
}

type TransformResult struct {
	Matches []match.Match
	Dropped []DroppedRecord
}

// TransformMatch converts one record. Any failure discards the whole match:
// the error wraps match.ErrIncompleteRecord or formation.ErrInvalidFormat.
func (s *TransformService) TransformMatch(raw match.RawMatch) (match.Match, error) {
	if err := s.validate.Struct(raw); err != nil {
		return match.Match{}, fmt.Errorf("%w: %s: %v", match.ErrIncompleteRecord, raw.ID, err)
	}

	out := match.Match{
		ID:       raw.ID,
		Date:     raw.Date,
		Season:   raw.Season,
		HomeTeam: raw.HomeTeam,
		AwayTeam: raw.AwayTeam,
		Score:    raw.Score,
	}

	for _, side := range match.Sides {
		lineup, err := s.transformLineup(raw.ID, side, raw.Lineup(side), raw.Date)
		if err != nil {
			return match.Match{}, err
		}
		*out.Lineup(side) = lineup
	}

	return out, nil
}

// TransformAll keeps input order; every input ends up either in Matches or in Dropped.
func (s *TransformService) TransformAll(ctx context.Context, raws []match.RawMatch) TransformResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransformService.TransformAll")
	defer span.End()

	result := TransformResult{Matches: make([]match.Match, 0, len(raws))}
	for _, raw := range raws {
		item, err := s.TransformMatch(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "skip match", "match_id", raw.ID, "error", err)
			result.Dropped = append(result.Dropped, DroppedRecord{ID: raw.ID, Reason: err})
			continue
		}
		result.Matches = append(result.Matches, item)
	}
	return result
}

func (s *TransformService) transformLineup(matchID string, side match.Side, raw *match.RawLineup, matchDate string) (match.Lineup, error) {
	if raw == nil {
		return match.Lineup{}, fmt.Errorf("%w: %s: %s lineup missing", match.ErrIncompleteRecord, matchID, side)
	}
	if strings.TrimSpace(raw.Formation) == "" {
		return match.Lineup{}, fmt.Errorf("%w: %s: %s formation missing", match.ErrIncompleteRecord, matchID, side)
	}

	positions, err := formation.ToPositions(raw.Formation)
	if err != nil {
		return match.Lineup{}, fmt.Errorf("%s %s lineup: %w", matchID, side, err)
	}
	if len(raw.Players) != match.LineupSize {
		return match.Lineup{}, fmt.Errorf("%w: %s: %s lineup has %d players, expected %d",
			match.ErrIncompleteRecord, matchID, side, len(raw.Players), match.LineupSize)
	}

	players := make([]player.Player, 0, match.LineupSize)
	for i, rp := range raw.Players {
		p, err := s.transformPlayer(rp, matchDate, positions[i])
		if err != nil {
			return match.Lineup{}, fmt.Errorf("%w: %s: %s player %d: %v", match.ErrIncompleteRecord, matchID, side, i, err)
		}
		players = append(players, p)
	}

	return match.Lineup{Formation: raw.Formation, Players: players}, nil
}

func (s *TransformService) transformPlayer(raw player.RawPlayer, matchDate string, position player.Position) (player.Player, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return player.Player{}, fmt.Errorf("player name is required")
	}

	if keys := naming.AmbiguousOverrides(name); len(keys) > 0 {
		s.logger.Warn("several name overrides match, first one applied", "name", name, "overrides", keys)
	}

	lastName, normalized, alternates := deriveNames(name)
	if normalized == "" {
		return player.Player{}, fmt.Errorf("cannot derive a comparison key for %q", name)
	}

	out := player.Player{
		Name:               name,
		LastName:           lastName,
		LastNameNormalized: normalized,
		Nationality:        raw.Nationality,
		NationalityFlag:    nationality.Flag(raw.Nationality),
		Age:                CalculateAge(raw.BirthDate, matchDate),
		ShirtNumber:        raw.ShirtNumber,
		Position:           position,
	}
	if len(alternates) > 0 {
		out.AlternateNames = alternates
	}
	return out, nil
}

// deriveNames returns the guessable last name, its comparison key and the
// alternate spellings. The key falls back to the whole name.
func deriveNames(name string) (string, string, []string) {
	lastName, alternates := naming.ExtractLastName(name)
	normalized := naming.Normalize(lastName)
	if normalized == "" {
		normalized = naming.Normalize(name)
	}
	return lastName, normalized, alternates
}

// CalculateAge returns whole years between birthDate and matchDate (both
// YYYY-MM-DD), or 0 when either is missing or unparseable.
func CalculateAge(birthDate, matchDate string) int {
	birth, err := time.Parse(isoDateLayout, strings.TrimSpace(birthDate))
	if err != nil {
		return 0
	}
	played, err := time.Parse(isoDateLayout, strings.TrimSpace(matchDate))
	if err != nil {
		return 0
	}

	age := played.Year() - birth.Year()
	if played.Month() < birth.Month() || (played.Month() == birth.Month() && played.Day() < birth.Day()) {
		age--
	}
	return age
}
