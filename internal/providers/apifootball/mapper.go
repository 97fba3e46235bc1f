package apifootball

import (
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
)

func mapFixture(f fixtureResponse) fixtures.Fixture {
	return fixtures.Fixture{
		ID:       f.Fixture.ID,
		Provider: providerName,
		Kickoff:  parseKickoff(f.Fixture.Date, f.Fixture.Timestamp),
		Status: fixtures.Status{
			Short:   strings.TrimSpace(f.Fixture.Status.Short),
			Long:    f.Fixture.Status.Long,
			Elapsed: f.Fixture.Status.Elapsed,
		},
		League: fixtures.League{
			ID:      f.League.ID,
			Name:    f.League.Name,
			Country: f.League.Country,
			Logo:    f.League.Logo,
			Season:  f.League.Season,
			Round:   f.League.Round,
		},
		Home:  mapTeam(f.Teams.Home),
		Away:  mapTeam(f.Teams.Away),
		Goals: fixtures.Goals{Home: f.Goals.Home, Away: f.Goals.Away},
	}
}

func mapTeam(t teamResponse) fixtures.Team {
	return fixtures.Team{ID: t.ID, Name: t.Name, Logo: t.Logo}
}

// parseKickoff prefers the ISO date (it carries the offset) and falls back to the
// unix timestamp. A zero time means neither was usable.
func parseKickoff(date string, timestamp int64) time.Time {
	if date = strings.TrimSpace(date); date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			return t
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}
