package organizer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-publisher/internal/catalog"
	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-publisher/internal/domain/sections"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/timeutil"
)

// Organizer turns a flat fixture list into the sectioned page payload.
type Organizer struct {
	catalog catalog.Catalog
	index   map[int]string
	loc     *time.Location
	logger  *slog.Logger
}

// New builds an Organizer that renders kickoff times in loc (UTC when nil).
func New(cat catalog.Catalog, loc *time.Location, logger *slog.Logger) *Organizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Organizer{
		catalog: cat,
		index:   cat.Index(),
		loc:     loc,
		logger:  logger,
	}
}

type bucketSet struct {
	order   []string
	leagues map[string]*sections.League
}

// Organize classifies fixtures into catalog sections, grouping by league name.
// Leagues keep first-appearance order and matches keep upstream order. Fixtures
// from untracked leagues or with missing essentials are dropped. Only
// non-empty sections are returned, in catalog order.
func (o *Organizer) Organize(list []fixtures.Fixture) []sections.Section {
	buckets := make(map[string]*bucketSet, len(o.catalog))
	skipped := 0

	for _, f := range list {
		key, ok := o.index[f.League.ID]
		if !ok {
			continue
		}
		match, err := o.buildMatch(f)
		if err != nil {
			skipped++
			if o.logger != nil {
				o.logger.Debug("skipping malformed fixture", "fixture_id", f.ID, "error", err)
			}
			continue
		}

		set, ok := buckets[key]
		if !ok {
			set = &bucketSet{leagues: make(map[string]*sections.League)}
			buckets[key] = set
		}
		name := strings.TrimSpace(f.League.Name)
		league, ok := set.leagues[name]
		if !ok {
			league = &sections.League{Name: name, Logo: f.League.Logo, Matches: []sections.Match{}}
			set.leagues[name] = league
			set.order = append(set.order, name)
		}
		league.Matches = append(league.Matches, match)
	}

	out := make([]sections.Section, 0, len(o.catalog))
	for _, cat := range o.catalog {
		set, ok := buckets[cat.Key]
		if !ok || len(set.order) == 0 {
			continue
		}
		section := sections.Section{Key: cat.Key, Title: cat.Title, Leagues: make([]sections.League, 0, len(set.order))}
		for _, name := range set.order {
			section.Leagues = append(section.Leagues, *set.leagues[name])
		}
		out = append(out, section)
	}

	if skipped > 0 {
		logging.Warn(o.logger, "dropped malformed fixtures", logging.FieldCount, skipped)
	}
	return out
}

func (o *Organizer) buildMatch(f fixtures.Fixture) (sections.Match, error) {
	if strings.TrimSpace(f.League.Name) == "" {
		return sections.Match{}, fmt.Errorf("missing league name")
	}
	if f.Home.Name == "" || f.Away.Name == "" {
		return sections.Match{}, fmt.Errorf("missing team name")
	}
	if f.Kickoff.IsZero() {
		return sections.Match{}, fmt.Errorf("missing kickoff")
	}

	match := sections.Match{
		Home:     f.Home.Name,
		HomeLogo: f.Home.Logo,
		Away:     f.Away.Name,
		AwayLogo: f.Away.Logo,
		Time:     f.Kickoff.In(o.loc).Format(timeutil.ClockLayout),
		Status:   DisplayStatus(f.Status.Short),
	}
	if f.Goals.Complete() {
		score := fmt.Sprintf("%d-%d", *f.Goals.Home, *f.Goals.Away)
		match.Score = &score
	}
	return match, nil
}
