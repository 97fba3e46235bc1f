package testutil

import (
	"context"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
)

// GoodProvider returns the provided fixtures with no error.
type GoodProvider struct {
	Fixtures []fixtures.Fixture
}

func (p GoodProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	_ = ctx
	_ = date
	_ = tz
	return p.Fixtures, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	return nil, p.Err
}

// EmptyProvider returns no fixtures.
type EmptyProvider struct{}

func (EmptyProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	return []fixtures.Fixture{}, nil
}

// UnavailableProvider always reports the provider as unavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	return nil, providers.ErrProviderUnavailable
}

// NotifyingProvider signals on Notify for every fetch.
type NotifyingProvider struct {
	Fixtures []fixtures.Fixture
	Notify   chan struct{}
}

func (p *NotifyingProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	if p.Notify != nil {
		select {
		case p.Notify <- struct{}{}:
		default:
		}
	}
	return p.Fixtures, nil
}
