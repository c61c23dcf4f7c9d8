package fbref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ScheduleEntry is one played fixture from a season's scores table.
type ScheduleEntry struct {
	Date     string
	HomeTeam string
	AwayTeam string
	Score    string
	Href     string
	Season   string
}

// PlayerInfo is what a player profile page contributes to a starter.
type PlayerInfo struct {
	Nationality string
	BirthDate   string
}

type Parser struct {
	logger *logging.Logger
}

func NewParser(logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{logger: logger}
}

// ParseMatchLineups reads the first two lineup containers of a match page.
// A side comes back nil unless exactly eleven starters were found.
func (p *Parser) ParseMatchLineups(doc *goquery.Document) (*match.RawLineup, *match.RawLineup) {
	containers := doc.Find("div.lineup")
	if containers.Length() < 2 {
		p.logger.Warn("could not find two lineup containers", "found", containers.Length())
		return nil, nil
	}

	home := p.parseLineup(containers.Eq(0))
	away := p.parseLineup(containers.Eq(1))
	return home, away
}

func (p *Parser) parseLineup(container *goquery.Selection) *match.RawLineup {
	var formationText string
	container.Find("th, td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if found := formation.FindInText(cell.Text()); found != "" {
			formationText = found
			return false
		}
		return true
	})

	players := make([]player.RawPlayer, 0, match.LineupSize)
	container.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if stat, _ := row.Find("th").First().Attr("data-stat"); stat == "player" {
			return true
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}

		if rp, ok := parsePlayerRow(cells); ok {
			players = append(players, rp)
		}
		return len(players) < match.LineupSize
	})

	if len(players) != match.LineupSize {
		p.logger.Warn("unexpected starter count", "found", len(players), "expected", match.LineupSize)
		return nil
	}

	return &match.RawLineup{Formation: formationText, Players: players}
}

func parsePlayerRow(cells *goquery.Selection) (player.RawPlayer, bool) {
	link := cells.Find("a").First()
	if link.Length() == 0 {
		return player.RawPlayer{}, false
	}

	href, _ := link.Attr("href")
	out := player.RawPlayer{
		Name: strings.TrimSpace(link.Text()),
		Href: strings.TrimSpace(href),
	}

	if number, err := strconv.Atoi(strings.TrimSpace(cells.First().Text())); err == nil && number >= 0 {
		out.ShirtNumber = number
	}
	return out, true
}

// ParseSchedule lists played fixtures, skipping rows without a match report
// link or an ISO date. season is the URL form, e.g. "2019-2020".
func (p *Parser) ParseSchedule(doc *goquery.Document, season string) []ScheduleEntry {
	table := doc.Find("table.stats_table").First()
	if table.Length() == 0 {
		p.logger.Warn("no schedule table found", "season", season)
		return nil
	}

	displaySeason := strings.ReplaceAll(season, "-", "/")
	var out []ScheduleEntry
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("thead") || row.HasClass("spacer") {
			return
		}

		dateCell := row.Find(`td[data-stat="date"]`).First()
		homeCell := row.Find(`td[data-stat="home_team"]`).First()
		awayCell := row.Find(`td[data-stat="away_team"]`).First()
		scoreCell := row.Find(`td[data-stat="score"]`).First()
		if dateCell.Length() == 0 || homeCell.Length() == 0 || awayCell.Length() == 0 || scoreCell.Length() == 0 {
			return
		}

		scoreLink := scoreCell.Find("a").First()
		if scoreLink.Length() == 0 {
			return
		}

		date := strings.TrimSpace(dateCell.Text())
		href, _ := scoreLink.Attr("href")
		if href == "" || !isoDatePrefix.MatchString(date) {
			return
		}

		out = append(out, ScheduleEntry{
			Date:     date,
			HomeTeam: strings.TrimSpace(homeCell.Text()),
			AwayTeam: strings.TrimSpace(awayCell.Text()),
			Score:    strings.ReplaceAll(strings.TrimSpace(scoreLink.Text()), "–", "-"),
			Href:     href,
			Season:   displaySeason,
		})
	})

	p.logger.Info("found scheduled matches", "season", season, "count", len(out))
	return out
}

// ParsePlayerPage reads nationality and birth date from a profile page.
// Missing data yields empty fields.
func (p *Parser) ParsePlayerPage(doc *goquery.Document) PlayerInfo {
	var info PlayerInfo

	meta := doc.Find("div#meta").First()
	if meta.Length() == 0 {
		return info
	}

	meta.Find("p").EachWithBreak(func(_ int, para *goquery.Selection) bool {
		text := para.Text()
		if !strings.Contains(text, "National Team") && !strings.Contains(text, "Citizenship") {
			return true
		}
		if link := para.Find("a").First(); link.Length() > 0 {
			info.Nationality = strings.TrimSpace(link.Text())
		}
		return false
	})

	if birth, ok := meta.Find("span#necro-birth").First().Attr("data-birth"); ok {
		info.BirthDate = strings.TrimSpace(birth)
	}
	return info
}

// MatchIDFromHref takes the second-to-last path segment of a match report
// link, e.g. "/en/matches/abc123/Arsenal-Chelsea" gives "abc123".
func MatchIDFromHref(href, fallback string) string {
	if !strings.Contains(href, "/") {
		return fallback
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-2]
}
