package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
)

// rateLimitedProvider wraps a FixtureProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     FixtureProvider
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// NewRateLimitedProvider returns a FixtureProvider that spaces calls at least interval apart.
// The first call goes straight through; later calls block until the interval has elapsed
// so a multi-day run stays under the upstream per-minute quota.
func NewRateLimitedProvider(next FixtureProvider, interval time.Duration, logger *slog.Logger) FixtureProvider {
	if interval <= 0 {
		interval = time.Minute
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func (p *rateLimitedProvider) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		}
		return nil, ErrProviderUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if wait := p.interval - p.now().Sub(p.last); wait > 0 {
			logWithProvider(ctx, p.logger, slog.LevelInfo, "rate-limited", "waiting before upstream call",
				slog.String("date", date), slog.Int64("wait_ms", wait.Milliseconds()))
			if err := p.sleep(ctx, wait); err != nil {
				logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled")
				return nil, err
			}
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.last = p.now()
	return p.next.FetchFixtures(ctx, date, tz)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
