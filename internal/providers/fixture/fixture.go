package fixture

import (
	"context"
	"time"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
	"github.com/preston-bernstein/matchday-publisher/internal/timeutil"
)

const providerName = "fixture"

// Provider returns a static slate of matches useful for local testing and dry runs.
// Every category and every display status is represented, plus one league that
// is not in the catalog.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

type slot struct {
	league   fixtures.League
	home     string
	away     string
	hour     int
	minute   int
	status   string
	goalHome *int
	goalAway *int
}

func goals(v int) *int { return &v }

var (
	botola     = fixtures.League{ID: 200, Name: "Botola Pro", Country: "Morocco"}
	saudi      = fixtures.League{ID: 307, Name: "Pro League", Country: "Saudi-Arabia"}
	cafCL      = fixtures.League{ID: 12, Name: "CAF Champions League", Country: "World"}
	premier    = fixtures.League{ID: 39, Name: "Premier League", Country: "England"}
	laLiga     = fixtures.League{ID: 140, Name: "La Liga", Country: "Spain"}
	ucl        = fixtures.League{ID: 2, Name: "UEFA Champions League", Country: "World"}
	worldCup   = fixtures.League{ID: 1, Name: "World Cup", Country: "World"}
	friendlies = fixtures.League{ID: 10, Name: "Friendlies", Country: "World"}
	mls        = fixtures.League{ID: 253, Name: "Major League Soccer", Country: "USA"}
)

var slate = []slot{
	{league: botola, home: "Wydad AC", away: "Raja Casablanca", hour: 20, status: "FT", goalHome: goals(1), goalAway: goals(1)},
	{league: botola, home: "AS FAR Rabat", away: "RS Berkane", hour: 18, status: "2H", goalHome: goals(0), goalAway: goals(1)},
	{league: saudi, home: "Al-Hilal", away: "Al-Nassr", hour: 19, minute: 30, status: "NS"},
	{league: cafCL, home: "Al Ahly", away: "Esperance Tunis", hour: 21, status: "PEN", goalHome: goals(2), goalAway: goals(2)},
	{league: premier, home: "Arsenal", away: "Chelsea", hour: 13, minute: 30, status: "HT", goalHome: goals(1), goalAway: goals(0)},
	{league: laLiga, home: "Real Madrid", away: "Barcelona", hour: 21, status: "NS"},
	{league: premier, home: "Liverpool", away: "Manchester City", hour: 17, minute: 30, status: "AET", goalHome: goals(3), goalAway: goals(2)},
	{league: ucl, home: "Bayern Munich", away: "Inter", hour: 20, status: "PST"},
	{league: worldCup, home: "Morocco", away: "Spain", hour: 16, status: "ET", goalHome: goals(0), goalAway: goals(0)},
	{league: friendlies, home: "Egypt", away: "Algeria", hour: 19, status: "TBD"},
	{league: mls, home: "Inter Miami", away: "LA Galaxy", hour: 2, status: "NS"},
}

// FetchFixtures returns the deterministic slate dated on the requested day in tz.
func (p *Provider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := providers.ResolveTimezone(tz)
	if loc == nil {
		loc = time.UTC
	}

	day := p.now().In(loc)
	if date != "" {
		if parsed, err := timeutil.ParseDate(date); err == nil {
			day = parsed
		}
	}
	y, m, d := day.Date()
	base := y*10000 + int(m)*100 + d

	out := make([]fixtures.Fixture, 0, len(slate))
	for i, s := range slate {
		out = append(out, fixtures.Fixture{
			ID:       base*100 + i,
			Provider: providerName,
			Kickoff:  time.Date(y, m, d, s.hour, s.minute, 0, 0, loc),
			Status:   fixtures.Status{Short: s.status},
			League:   s.league,
			Home:     fixtures.Team{ID: 1000 + 2*i, Name: s.home},
			Away:     fixtures.Team{ID: 1001 + 2*i, Name: s.away},
			Goals:    fixtures.Goals{Home: s.goalHome, Away: s.goalAway},
		})
	}
	return out, nil
}
