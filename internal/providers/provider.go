package providers

import (
	"context"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
)

// FixtureProvider defines how upstream fixture data is fetched and normalized.
// The date parameter is a YYYY-MM-DD string; tz is the IANA zone the upstream should
// use when deciding which fixtures fall on that date. Providers should interpret an
// empty date as "today" in their configured timezone.
type FixtureProvider interface {
	FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error)
}
