package providers

import (
	"context"
	"testing"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
)

type testProvider struct{}

func (t *testProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	_ = ctx
	_ = date
	_ = tz
	return nil, nil
}

func TestFixtureProviderInterfaceImplemented(t *testing.T) {
	var _ FixtureProvider = (*testProvider)(nil)
}
