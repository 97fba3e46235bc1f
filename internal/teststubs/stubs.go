package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
)

// StubProvider is a test double for providers.FixtureProvider.
type StubProvider struct {
	Fixtures []fixtures.Fixture
	// ByDate overrides Fixtures for specific YYYY-MM-DD dates.
	ByDate map[string][]fixtures.Fixture
	Err    error
	// ErrByDate fails only the listed dates.
	ErrByDate map[string]error
	Calls     atomic.Int32
	Notify    chan struct{}

	mu    sync.Mutex
	dates []string
}

// FetchFixtures returns configured fixtures and error while tracking calls.
func (s *StubProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	_ = ctx
	_ = tz
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	s.mu.Lock()
	s.dates = append(s.dates, date)
	s.mu.Unlock()

	if err, ok := s.ErrByDate[date]; ok {
		return nil, err
	}
	if list, ok := s.ByDate[date]; ok {
		return list, s.Err
	}
	return s.Fixtures, s.Err
}

// Dates returns the dates requested so far, in call order.
func (s *StubProvider) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dates...)
}

// StubPublisher is a test double for the page publish targets.
type StubPublisher struct {
	Err       error
	ErrBySlug map[string]error
	Result    matchday.PublishResult

	mu        sync.Mutex
	Published []matchday.Page
}

// Publish records the page and returns the configured result.
func (p *StubPublisher) Publish(ctx context.Context, page matchday.Page) (matchday.PublishResult, error) {
	_ = ctx
	if err, ok := p.ErrBySlug[page.Slug]; ok {
		return matchday.PublishResult{}, err
	}
	if p.Err != nil {
		return matchday.PublishResult{}, p.Err
	}
	p.mu.Lock()
	p.Published = append(p.Published, page)
	p.mu.Unlock()
	res := p.Result
	if res.Action == "" {
		res.Action = matchday.ActionUpdated
	}
	return res, nil
}

// Pages returns a copy of everything published so far.
func (p *StubPublisher) Pages() []matchday.Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]matchday.Page(nil), p.Published...)
}
