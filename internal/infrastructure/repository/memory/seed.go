package memory

import (
	"strings"

	"github.com/riskibarqy/lineup-dataset/internal/domain/formation"
	"github.com/riskibarqy/lineup-dataset/internal/domain/match"
	"github.com/riskibarqy/lineup-dataset/internal/domain/player"
)

const (
	MatchIDLegacy2009 = "e0b7d9a1"
	MatchIDSeason2019 = "3a6f2c11"
)

// SeedMatches returns two canonical matches: one before the 2010 cutoff and
// one after, the latter carrying last names derived by an older rule set.
func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         MatchIDLegacy2009,
			Date:       "2009-05-16",
			Season:     "2008/2009",
			HomeTeam:   "Manchester United",
			AwayTeam:   "Arsenal",
			Score:      "0-0",
			HomeLineup: seedLineup("4-4-2", "Edwin van der Sar", "Gary Neville", "Rio Ferdinand", "Nemanja Vidić", "Patrice Evra", "Cristiano Ronaldo", "Michael Carrick", "Anderson", "Park Ji-sung", "Wayne Rooney", "Carlos Tevez"),
			AwayLineup: seedLineup("4-5-1", "Manuel Almunia", "Bacary Sagna", "Kolo Touré", "William Gallas", "Kieran Gibbs", "Theo Walcott", "Alex Song", "Cesc Fàbregas", "Samir Nasri", "Abou Diaby", "Emmanuel Adebayor"),
		},
		{
			ID:         MatchIDSeason2019,
			Date:       "2019-10-20",
			Season:     "2019/2020",
			HomeTeam:   "Manchester United",
			AwayTeam:   "Liverpool",
			Score:      "1-1",
			HomeLineup: seedLineup("3-4-1-2", "David de Gea", "Victor Lindelöf", "Harry Maguire", "Marcos Rojo", "Aaron Wan-Bissaka", "Scott McTominay", "Fred", "Ashley Young", "Andreas Pereira", "Daniel James", "Marcus Rashford"),
			AwayLineup: seedLineup("4-3-3", "Alisson", "Trent Alexander-Arnold", "Joël Matip", "Virgil van Dijk", "Andrew Robertson", "Jordan Henderson", "Fabinho", "James Milner", "Alex Oxlade-Chamberlain", "Roberto Firmino", "Sadio Mané"),
		},
	}
}

// seedLineup fills every derived name field with the plain final token, the
// way an early version of the pipeline did.
func seedLineup(formationText string, names ...string) match.Lineup {
	positions, _ := formation.ToPositions(formationText)
	players := make([]player.Player, 0, len(names))
	for i, name := range names {
		parts := strings.Fields(name)
		last := parts[len(parts)-1]
		players = append(players, player.Player{
			Name:               name,
			LastName:           last,
			LastNameNormalized: last,
			Nationality:        "England",
			NationalityFlag:    "\U0001F3F4\U000E0067\U000E0062\U000E0065\U000E006E\U000E0067\U000E007F",
			Age:                25,
			ShirtNumber:        i + 1,
			Position:           positions[i],
			AlternateNames:     []string{"stale"},
		})
	}
	return match.Lineup{Formation: formationText, Players: players}
}
