package player

import (
	"sort"
	"strings"
)

// Position is the coarse role a starter occupies, derived from the formation.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

var positionRank = map[Position]int{
	PositionGoalkeeper: 0,
	PositionDefender:   1,
	PositionMidfielder: 2,
	PositionForward:    3,
}

// PositionNames lists the valid positions, goalkeeper first.
func PositionNames() []string {
	names := make([]string, 0, len(AllPositions))
	for p := range AllPositions {
		names = append(names, string(p))
	}
	sort.Slice(names, func(i, j int) bool {
		return positionRank[Position(names[i])] < positionRank[Position(names[j])]
	})
	return names
}

// API position codes as sent by the JSON source.
const (
	CodeGoalkeeper = "G"
	CodeDefender   = "D"
	CodeMidfielder = "M"
	CodeForward    = "F"
)

var positionByCode = map[string]Position{
	CodeGoalkeeper: PositionGoalkeeper,
	CodeDefender:   PositionDefender,
	CodeMidfielder: PositionMidfielder,
	CodeForward:    PositionForward,
}

// CodeToPosition maps a one-letter API code to a position.
func CodeToPosition(code string) (Position, bool) {
	pos, ok := positionByCode[strings.ToUpper(strings.TrimSpace(code))]
	return pos, ok
}

// CodeRank orders codes G < D < M < F; unknown codes rank last.
func CodeRank(code string) int {
	pos, ok := CodeToPosition(code)
	if !ok {
		return len(positionRank)
	}
	return positionRank[pos]
}

// RawPlayer is a starter as extracted by a source parser, before normalization.
type RawPlayer struct {
	Name        string `json:"name"`
	Href        string `json:"href,omitempty"`
	ShirtNumber int    `json:"shirtNumber"`
	Nationality string `json:"nationality,omitempty"`
	BirthDate   string `json:"birth_date,omitempty"`
	APIPosition string `json:"api_position,omitempty"`
}

// Player is the canonical persisted starter. Field order is the dataset key order.
type Player struct {
	Name               string   `json:"name"`
	LastName           string   `json:"lastName"`
	LastNameNormalized string   `json:"lastNameNormalized"`
	Nationality        string   `json:"nationality"`
	NationalityFlag    string   `json:"nationalityFlag"`
	Age                int      `json:"age"`
	ShirtNumber        int      `json:"shirtNumber"`
	Position           Position `json:"position"`
	AlternateNames     []string `json:"alternateNames,omitempty"`
}

// RequiredFields lists the keys every persisted player object must carry.
var RequiredFields = []string{
	"name",
	"lastName",
	"lastNameNormalized",
	"nationality",
	"nationalityFlag",
	"age",
	"shirtNumber",
	"position",
}
