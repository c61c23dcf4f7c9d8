package fbref

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lineup-dataset/external/httpfetch"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
)

const (
	defaultBaseURL         = "https://fbref.com"
	defaultCompetitionID   = 9
	defaultCompetitionSlug = "Premier-League"
)

// PageFetcher returns the HTML of a page.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

type SourceConfig struct {
	Fetcher         PageFetcher
	BaseURL         string
	CompetitionID   int
	CompetitionSlug string
	Logger          *logging.Logger
}

// Source implements usecase.MatchSource over FBref-style HTML pages.
type Source struct {
	fetcher         PageFetcher
	parser          *Parser
	baseURL         string
	competitionID   int
	competitionSlug string
	logger          *logging.Logger
}

func NewSource(cfg SourceConfig) (*Source, error) {
	if cfg.Fetcher == nil {
		return nil, crerr.New("fbref source needs a page fetcher")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := cfg.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	baseURL, err := httpfetch.ValidateBaseURL(baseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid FBREF_BASE_URL")
	}

	competitionID := cfg.CompetitionID
	if competitionID <= 0 {
		competitionID = defaultCompetitionID
	}
	slug := strings.TrimSpace(cfg.CompetitionSlug)
	if slug == "" {
		slug = defaultCompetitionSlug
	}

	return &Source{
		fetcher:         cfg.Fetcher,
		parser:          NewParser(logger),
		baseURL:         baseURL,
		competitionID:   competitionID,
		competitionSlug: slug,
		logger:          logger,
	}, nil
}

func (s *Source) Name() string {
	return "fbref"
}

// ScheduleURL is the scores-and-fixtures page for a season such as "2019-2020".
func (s *Source) ScheduleURL(season string) string {
	return fmt.Sprintf("%s/en/comps/%d/%s/schedule/%s-%s-Scores-and-Fixtures",
		s.baseURL, s.competitionID, season, season, s.competitionSlug)
}

func (s *Source) ListSeason(ctx context.Context, season string) ([]usecase.MatchRef, error) {
	doc, err := s.document(ctx, s.ScheduleURL(season))
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch schedule season=%s", season)
	}

	entries := s.parser.ParseSchedule(doc, season)
	refs := make([]usecase.MatchRef, 0, len(entries))
	for _, entry := range entries {
		refs = append(refs, usecase.MatchRef{
			ID:       MatchIDFromHref(entry.Href, entry.Date),
			URL:      s.absoluteURL(entry.Href),
			Date:     entry.Date,
			Season:   entry.Season,
			HomeTeam: entry.HomeTeam,
			AwayTeam: entry.AwayTeam,
			Score:    entry.Score,
		})
	}
	return refs, nil
}

// FetchMatch reads both lineups from the match report and enriches every
// starter from their profile page. A profile that cannot be read leaves the
// starter without nationality and birth date.
func (s *Source) FetchMatch(ctx context.Context, ref usecase.MatchRef) (match.RawMatch, error) {
	doc, err := s.document(ctx, ref.URL)
	if err != nil {
		return match.RawMatch{}, crerr.Wrapf(err, "fetch match %s", ref.ID)
	}

	home, away := s.parser.ParseMatchLineups(doc)
	if home == nil || away == nil {
		return match.RawMatch{}, fmt.Errorf("%w: missing lineup data for %s %s vs %s",
			match.ErrIncompleteRecord, ref.Date, ref.HomeTeam, ref.AwayTeam)
	}

	raw := match.RawMatch{
		ID:         ref.ID,
		Date:       ref.Date,
		Season:     ref.Season,
		HomeTeam:   ref.HomeTeam,
		AwayTeam:   ref.AwayTeam,
		Score:      ref.Score,
		HomeLineup: home,
		AwayLineup: away,
	}

	for _, lineup := range []*match.RawLineup{home, away} {
		for i := range lineup.Players {
			rp := &lineup.Players[i]
			if rp.Href == "" {
				continue
			}

			info, err := s.playerInfo(ctx, rp.Href)
			if err != nil {
				if ctx.Err() != nil {
					return match.RawMatch{}, ctx.Err()
				}
				s.logger.WarnContext(ctx, "failed to fetch player", "name", rp.Name, "error", err)
				continue
			}
			rp.Nationality = info.Nationality
			rp.BirthDate = info.BirthDate
		}
	}

	return raw, nil
}

func (s *Source) playerInfo(ctx context.Context, href string) (PlayerInfo, error) {
	doc, err := s.document(ctx, s.absoluteURL(href))
	if err != nil {
		return PlayerInfo{}, err
	}
	return s.parser.ParsePlayerPage(doc), nil
}

func (s *Source) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, crerr.Wrapf(err, "parse html from %s", pageURL)
	}
	return doc, nil
}

func (s *Source) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.baseURL + href
}
