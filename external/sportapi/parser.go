// Package sportapi reads match details from a JSON sports API.
//
// A match-detail payload looks like:
//
//	{
//	  "match": {
//	    "id": 10385, "season": "2019/2020",
//	    "kickoffTimestamp": 1565377200000, "kickoffLabel": "Friday, 9 August 2019",
//	    "homeScore": 4, "awayScore": 1,
//	    "teams": [{"id": 44, "name": "Liverpool", "side": "home"}, ...]
//	  },
//	  "lineups": [
//	    {"teamId": 44, "formation": "4-3-3", "players": [
//	      {"displayName": "Virgil van Dijk", "shirtNumber": 4, "position": "D",
//	       "starter": true, "nationalTeam": {"name": "Netherlands"},
//	       "birthTimestamp": 709862400000}, ...]},
//	    ...
//	  ]
//	}
//
// Every field has a fallback, see the resolver chains below.
package sportapi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

const isoDateLayout = "2006-01-02"

var kickoffLayouts = []string{
	"Monday, 2 January 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"02.01.2006",
}

var birthLayouts = []string{
	"January 2, 2006",
	"2 January 2006",
}

type team struct {
	ID   string
	Name string
}

// sideStrategy resolves both sides or reports false; partial answers are discarded.
type sideStrategy func(teams []map[string]any) (home, away int, ok bool)

var sideStrategies = []sideStrategy{
	sidesBySideTag,
	sidesByTypeTag,
	sidesByPosition,
}

// ParseMatchDetail turns a match-detail payload into an intermediate record.
// Failures wrap match.ErrIncompleteRecord.
func ParseMatchDetail(raw []byte) (match.RawMatch, error) {
	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return match.RawMatch{}, fmt.Errorf("%w: decode match detail: %v", match.ErrIncompleteRecord, err)
	}

	detail := getMap(payload, "match")
	if detail == nil {
		detail = payload
	}

	id := getString(detail, "id", "matchId")
	if id == "" {
		return match.RawMatch{}, fmt.Errorf("%w: match id missing", match.ErrIncompleteRecord)
	}

	date, ok := resolveKickoffDate(detail)
	if !ok {
		return match.RawMatch{}, fmt.Errorf("%w: %s: no usable kickoff date", match.ErrIncompleteRecord, id)
	}

	home, away, err := resolveTeams(detail)
	if err != nil {
		return match.RawMatch{}, fmt.Errorf("%w: %s: %v", match.ErrIncompleteRecord, id, err)
	}

	homeLineup, awayLineup, err := resolveLineups(payload, home, away)
	if err != nil {
		return match.RawMatch{}, fmt.Errorf("%w: %s: %v", match.ErrIncompleteRecord, id, err)
	}

	homeScore, homeOK := getInt64(detail, "homeScore")
	awayScore, awayOK := getInt64(detail, "awayScore")

	return match.RawMatch{
		ID:         id,
		Date:       date,
		Season:     getString(detail, "season"),
		HomeTeam:   home.Name,
		AwayTeam:   away.Name,
		Score:      formatScore(homeScore, awayScore, homeOK && awayOK),
		HomeLineup: homeLineup,
		AwayLineup: awayLineup,
	}, nil
}

// resolveKickoffDate prefers the millisecond timestamp, then the text label.
func resolveKickoffDate(detail map[string]any) (string, bool) {
	if ms, ok := getInt64(detail, "kickoffTimestamp"); ok && ms > 0 {
		return time.UnixMilli(ms).UTC().Format(isoDateLayout), true
	}
	return parseDateLabel(getString(detail, "kickoffLabel"), kickoffLayouts, true)
}

func parseDateLabel(label string, layouts []string, allowRFC3339 bool) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, label); err == nil {
			return parsed.Format(isoDateLayout), true
		}
	}
	if allowRFC3339 {
		if parsed, err := time.Parse(time.RFC3339, label); err == nil {
			return parsed.UTC().Format(isoDateLayout), true
		}
	}
	return "", false
}

func resolveTeams(detail map[string]any) (team, team, error) {
	items := getSlice(detail, "teams")
	teams := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			teams = append(teams, m)
		}
	}
	if len(teams) < 2 {
		return team{}, team{}, fmt.Errorf("expected two teams, got %d", len(teams))
	}

	for _, strategy := range sideStrategies {
		homeIdx, awayIdx, ok := strategy(teams)
		if !ok || homeIdx == awayIdx {
			continue
		}
		home := toTeam(teams[homeIdx])
		away := toTeam(teams[awayIdx])
		if home.Name == "" || away.Name == "" {
			return team{}, team{}, fmt.Errorf("team name missing")
		}
		return home, away, nil
	}
	return team{}, team{}, fmt.Errorf("cannot resolve home and away teams")
}

func toTeam(src map[string]any) team {
	return team{
		ID:   getString(src, "id", "teamId"),
		Name: getString(src, "name", "shortName"),
	}
}

func sidesBySideTag(teams []map[string]any) (int, int, bool) {
	return pickSides(teams, func(t map[string]any) string {
		return strings.ToLower(getString(t, "side"))
	})
}

func sidesByTypeTag(teams []map[string]any) (int, int, bool) {
	return pickSides(teams, func(t map[string]any) string {
		switch strings.ToUpper(getString(t, "type")) {
		case "HOME":
			return "home"
		case "AWAY":
			return "away"
		}
		if isHome, ok := getBool(t, "isHome"); ok {
			if isHome {
				return "home"
			}
			return "away"
		}
		return ""
	})
}

func sidesByPosition(teams []map[string]any) (int, int, bool) {
	return 0, 1, len(teams) >= 2
}

// pickSides requires exactly one team tagged home and one tagged away.
func pickSides(teams []map[string]any, tag func(map[string]any) string) (int, int, bool) {
	home, away := -1, -1
	for i, t := range teams {
		switch tag(t) {
		case "home":
			if home >= 0 {
				return 0, 0, false
			}
			home = i
		case "away":
			if away >= 0 {
				return 0, 0, false
			}
			away = i
		}
	}
	return home, away, home >= 0 && away >= 0
}

func resolveLineups(payload map[string]any, home, away team) (*match.RawLineup, *match.RawLineup, error) {
	items := getSlice(payload, "lineups")
	lineups := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			lineups = append(lineups, m)
		}
	}
	if len(lineups) < 2 {
		return nil, nil, fmt.Errorf("expected two lineups, got %d", len(lineups))
	}

	homeIdx := lineupIndexByTeam(lineups, home.ID)
	awayIdx := lineupIndexByTeam(lineups, away.ID)
	if homeIdx < 0 || awayIdx < 0 || homeIdx == awayIdx {
		homeIdx, awayIdx = 0, 1
	}

	return parseLineup(lineups[homeIdx]), parseLineup(lineups[awayIdx]), nil
}

func lineupIndexByTeam(lineups []map[string]any, teamID string) int {
	if teamID == "" {
		return -1
	}
	for i, l := range lineups {
		if getString(l, "teamId") == teamID {
			return i
		}
	}
	return -1
}

func parseLineup(src map[string]any) *match.RawLineup {
	players := make([]player.RawPlayer, 0, match.LineupSize)
	for _, item := range getSlice(src, "players") {
		p, ok := item.(map[string]any)
		if !ok || !isStarter(p) {
			continue
		}
		players = append(players, parsePlayer(p))
		if len(players) == match.LineupSize {
			break
		}
	}

	codes := make([]string, 0, len(players))
	allCoded := len(players) > 0
	for _, p := range players {
		codes = append(codes, p.APIPosition)
		if p.APIPosition == "" {
			allCoded = false
		}
	}
	if allCoded {
		sort.SliceStable(players, func(i, j int) bool {
			return player.CodeRank(players[i].APIPosition) < player.CodeRank(players[j].APIPosition)
		})
	}

	formationText := getString(src, "formation")
	if formationText == "" {
		formationText = formation.Infer(codes)
	}

	return &match.RawLineup{Formation: formationText, Players: players}
}

func isStarter(p map[string]any) bool {
	if starter, ok := getBool(p, "starter"); ok {
		return starter
	}
	if substitute, ok := getBool(p, "substitute"); ok {
		return !substitute
	}
	return true
}

func parsePlayer(src map[string]any) player.RawPlayer {
	name := getString(src, "displayName")
	if name == "" {
		name = strings.TrimSpace(getString(src, "firstName") + " " + getString(src, "lastName"))
	}

	shirt, _ := getInt64(src, "shirtNumber", "jerseyNumber")
	if shirt < 0 {
		shirt = 0
	}

	return player.RawPlayer{
		Name:        name,
		Href:        getString(src, "id", "playerId"),
		ShirtNumber: int(shirt),
		Nationality: firstNonEmpty(getString(getMap(src, "nationalTeam"), "name"), getString(src, "nationality")),
		BirthDate:   resolveBirthDate(src),
		APIPosition: normalizePositionCode(getString(src, "position")),
	}
}

func resolveBirthDate(src map[string]any) string {
	if ms, ok := getInt64(src, "birthTimestamp"); ok && ms != 0 {
		return time.UnixMilli(ms).UTC().Format(isoDateLayout)
	}
	date, _ := parseDateLabel(getString(src, "birthLabel"), birthLayouts, false)
	return date
}

// normalizePositionCode maps a code or a role word onto G/D/M/F.
func normalizePositionCode(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	switch value[0] {
	case 'G':
		return player.CodeGoalkeeper
	case 'D':
		return player.CodeDefender
	case 'M':
		return player.CodeMidfielder
	case 'F', 'A', 'S':
		return player.CodeForward
	default:
		return ""
	}
}
