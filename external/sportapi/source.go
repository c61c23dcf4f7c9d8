package sportapi

import (
	"context"
	"net/url"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/lineup-dataset/external/httpfetch"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
)

// JSONFetcher fetches a JSON document; a nil target returns the raw payload only.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, rawURL string, params url.Values, target any) ([]byte, error)
}

type SourceConfig struct {
	Fetcher  JSONFetcher
	BaseURL  string
	LeagueID string
	Logger   *logging.Logger
}

// Source implements usecase.MatchSource over the JSON API.
type Source struct {
	fetcher  JSONFetcher
	baseURL  string
	leagueID string
	logger   *logging.Logger
}

func NewSource(cfg SourceConfig) (*Source, error) {
	if cfg.Fetcher == nil {
		return nil, crerr.New("sportapi source needs a json fetcher")
	}
	baseURL, err := httpfetch.ValidateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid SPORTAPI_BASE_URL")
	}
	leagueID := strings.TrimSpace(cfg.LeagueID)
	if leagueID == "" {
		return nil, crerr.New("league id is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Source{
		fetcher:  cfg.Fetcher,
		baseURL:  baseURL,
		leagueID: leagueID,
		logger:   logger,
	}, nil
}

func (s *Source) Name() string {
	return "sportapi"
}

type fixturesEnvelope struct {
	Fixtures []map[string]any `json:"fixtures"`
}

var finishedStatuses = map[string]struct{}{
	"finished": {},
	"ft":       {},
	"aet":      {},
	"pen":      {},
}

// ListSeason lists finished fixtures of a season such as "2019-2020".
func (s *Source) ListSeason(ctx context.Context, season string) ([]usecase.MatchRef, error) {
	label := strings.ReplaceAll(season, "-", "/")
	fixturesURL := s.baseURL + "/leagues/" + url.PathEscape(s.leagueID) + "/fixtures"

	var envelope fixturesEnvelope
	if _, err := s.fetcher.FetchJSON(ctx, fixturesURL, url.Values{"season": {label}}, &envelope); err != nil {
		return nil, crerr.Wrapf(err, "fetch fixtures season=%s", season)
	}

	refs := make([]usecase.MatchRef, 0, len(envelope.Fixtures))
	for _, item := range envelope.Fixtures {
		if _, ok := finishedStatuses[strings.ToLower(getString(item, "status"))]; !ok {
			continue
		}
		id := getString(item, "id")
		if id == "" {
			continue
		}
		date, _ := resolveKickoffDate(item)
		homeScore, homeOK := getInt64(item, "homeScore")
		awayScore, awayOK := getInt64(item, "awayScore")

		refs = append(refs, usecase.MatchRef{
			ID:       id,
			URL:      s.matchURL(id),
			Date:     date,
			Season:   label,
			HomeTeam: getString(item, "homeTeam"),
			AwayTeam: getString(item, "awayTeam"),
			Score:    formatScore(homeScore, awayScore, homeOK && awayOK),
		})
	}

	s.logger.InfoContext(ctx, "found finished fixtures", "season", season, "count", len(refs))
	return refs, nil
}

// FetchMatch reads the match-detail payload. The listing's season label
// fills in when the payload carries none.
func (s *Source) FetchMatch(ctx context.Context, ref usecase.MatchRef) (match.RawMatch, error) {
	detailURL := ref.URL
	if detailURL == "" {
		detailURL = s.matchURL(ref.ID)
	}

	raw, err := s.fetcher.FetchJSON(ctx, detailURL, nil, nil)
	if err != nil {
		return match.RawMatch{}, crerr.Wrapf(err, "fetch match %s", ref.ID)
	}

	out, err := ParseMatchDetail(raw)
	if err != nil {
		return match.RawMatch{}, err
	}
	if out.Season == "" {
		out.Season = ref.Season
	}
	return out, nil
}

func (s *Source) matchURL(id string) string {
	return s.baseURL + "/matches/" + url.PathEscape(id)
}
