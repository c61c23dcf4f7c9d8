package match

import (
	"errors"

	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

var (
	// ErrIncompleteRecord marks a source record that cannot become a canonical match.
	ErrIncompleteRecord = errors.New("incomplete match record")
	ErrDatasetNotFound  = errors.New("dataset not found")
)

// LineupSize is the number of starters every canonical lineup carries.
const LineupSize = 11

// RawLineup is one side's starting eleven as scraped. Formation may be empty.
type RawLineup struct {
	Formation string             `json:"formation"`
	Players   []player.RawPlayer `json:"players"`
}

// RawMatch is the intermediate record shared by both source parsers.
type RawMatch struct {
	ID         string     `json:"id" validate:"required"`
	Date       string     `json:"date" validate:"required,datetime=2006-01-02"`
	Season     string     `json:"season"`
	HomeTeam   string     `json:"home_team" validate:"required"`
	AwayTeam   string     `json:"away_team" validate:"required"`
	Score      string     `json:"score"`
	HomeLineup *RawLineup `json:"home_lineup,omitempty"`
	AwayLineup *RawLineup `json:"away_lineup,omitempty"`
}

// Lineup is a canonical lineup; Players[i] occupies the i-th formation slot.
type Lineup struct {
	Formation string          `json:"formation"`
	Players   []player.Player `json:"players"`
}

// Match is the canonical persisted record. Field order is the dataset key order.
type Match struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Season     string `json:"season"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	Score      string `json:"score"`
	HomeLineup Lineup `json:"homeLineup"`
	AwayLineup Lineup `json:"awayLineup"`
}

// Side names one half of a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

var Sides = []Side{SideHome, SideAway}

// LineupKey is the dataset key holding the side's lineup.
func (s Side) LineupKey() string {
	return string(s) + "Lineup"
}

func (m *Match) Lineup(side Side) *Lineup {
	if side == SideHome {
		return &m.HomeLineup
	}
	return &m.AwayLineup
}

func (m RawMatch) Lineup(side Side) *RawLineup {
	if side == SideHome {
		return m.HomeLineup
	}
	return m.AwayLineup
}

// RequiredFields lists the keys every persisted match object must carry.
var RequiredFields = []string{
	"id",
	"date",
	"season",
	"homeTeam",
	"awayTeam",
	"score",
	"homeLineup",
	"awayLineup",
}
