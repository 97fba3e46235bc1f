package testutil

import (
	"time"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
)

// Goals returns a pointer to v for building scores.
func Goals(v int) *int {
	return &v
}

// SampleFixture returns a minimal fixture in the given league.
func SampleFixture(id, leagueID int, leagueName string, kickoff time.Time, status string) fixtures.Fixture {
	return fixtures.Fixture{
		ID:       id,
		Provider: "test",
		Kickoff:  kickoff,
		Status:   fixtures.Status{Short: status},
		League:   fixtures.League{ID: leagueID, Name: leagueName, Logo: "https://media.example/leagues/" + leagueName + ".png"},
		Home:     fixtures.Team{ID: id*10 + 1, Name: "Home", Logo: "https://media.example/teams/home.png"},
		Away:     fixtures.Team{ID: id*10 + 2, Name: "Away", Logo: "https://media.example/teams/away.png"},
	}
}

// FinishedFixture is SampleFixture with a full-time score.
func FinishedFixture(id, leagueID int, leagueName string, kickoff time.Time, home, away int) fixtures.Fixture {
	f := SampleFixture(id, leagueID, leagueName, kickoff, "FT")
	f.Goals = fixtures.Goals{Home: Goals(home), Away: Goals(away)}
	return f
}
