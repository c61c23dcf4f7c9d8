package fbref

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/platform/logging"
	"github.com/riskibarqy/lineup-dataset/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f fakeFetcher) FetchPage(_ context.Context, pageURL string) (string, error) {
	page, ok := f.pages[pageURL]
	if !ok {
		return "", errors.New("404 " + pageURL)
	}
	return page, nil
}

func newTestSource(t *testing.T, pages map[string]string) *Source {
	t.Helper()
	source, err := NewSource(SourceConfig{
		Fetcher: fakeFetcher{pages: pages},
		BaseURL: "https://fbref.test/",
		Logger:  logging.NewNop(),
	})
	require.NoError(t, err)
	return source
}

func TestSource_ListSeason(t *testing.T) {
	t.Parallel()

	scheduleURL := "https://fbref.test/en/comps/9/2019-2020/schedule/2019-2020-Premier-League-Scores-and-Fixtures"
	schedule := `<table class="stats_table"><tbody>
<tr><td data-stat="date">2019-08-09</td><td data-stat="home_team">Liverpool</td><td data-stat="score"><a href="/en/matches/928467bd/Liverpool-Norwich-City">4–1</a></td><td data-stat="away_team">Norwich City</td></tr>
</tbody></table>`

	source := newTestSource(t, map[string]string{scheduleURL: schedule})
	require.Equal(t, scheduleURL, source.ScheduleURL("2019-2020"))

	refs, err := source.ListSeason(context.Background(), "2019-2020")
	require.NoError(t, err)
	require.Equal(t, []usecase.MatchRef{{
		ID:       "928467bd",
		URL:      "https://fbref.test/en/matches/928467bd/Liverpool-Norwich-City",
		Date:     "2019-08-09",
		Season:   "2019/2020",
		HomeTeam: "Liverpool",
		AwayTeam: "Norwich City",
		Score:    "4-1",
	}}, refs)
}

func TestSource_FetchMatch_EnrichesPlayers(t *testing.T) {
	t.Parallel()

	matchURL := "https://fbref.test/en/matches/928467bd/Liverpool-Norwich-City"
	pages := map[string]string{
		matchURL: lineupHTML("Liverpool", "4-3-3", 11, "h") + lineupHTML("Norwich City", "4-2-3-1", 11, "a"),
	}
	for i := 0; i < 11; i++ {
		if i == 5 {
			continue
		}
		url := fmt.Sprintf("https://fbref.test/en/players/h%02d/h-Player", i)
		pages[url] = `<div id="meta"><p>Born: <span id="necro-birth" data-birth="1992-04-10"></span></p><p>National Team: <a>Netherlands</a></p></div>`
	}

	source := newTestSource(t, pages)
	raw, err := source.FetchMatch(context.Background(), usecase.MatchRef{
		ID:       "928467bd",
		URL:      matchURL,
		Date:     "2019-08-09",
		Season:   "2019/2020",
		HomeTeam: "Liverpool",
		AwayTeam: "Norwich City",
		Score:    "4-1",
	})
	require.NoError(t, err)

	require.Equal(t, "928467bd", raw.ID)
	require.Equal(t, "4-3-3", raw.HomeLineup.Formation)
	require.Equal(t, "Netherlands", raw.HomeLineup.Players[0].Nationality)
	require.Equal(t, "1992-04-10", raw.HomeLineup.Players[0].BirthDate)
	require.Empty(t, raw.HomeLineup.Players[5].Nationality, "failed profile fetch leaves fields empty")
	require.Empty(t, raw.AwayLineup.Players[0].Nationality)
}

func TestSource_FetchMatch_MissingLineups(t *testing.T) {
	t.Parallel()

	matchURL := "https://fbref.test/en/matches/x/y"
	source := newTestSource(t, map[string]string{matchURL: "<html><body>postponed</body></html>"})

	_, err := source.FetchMatch(context.Background(), usecase.MatchRef{ID: "x", URL: matchURL})
	require.ErrorIs(t, err, match.ErrIncompleteRecord)
}

func TestNewSource_RequiresFetcher(t *testing.T) {
	t.Parallel()

	_, err := NewSource(SourceConfig{})
	require.Error(t, err)
}
