package server

import (
	"log/slog"

	"github.com/preston-bernstein/matchday-publisher/internal/config"
	"github.com/preston-bernstein/matchday-publisher/internal/metrics"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.FixtureProvider {
	base := selectProvider(cfg, f.logger)
	provider := base
	// A zero MinInterval leaves upstream calls unspaced.
	if cfg.APIFootball.MinInterval > 0 {
		provider = providers.NewRateLimitedProvider(provider, cfg.APIFootball.MinInterval, f.logger)
	}
	return providers.NewRetryingProvider(provider, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base), cfg.APIFootball.Retries, 0)
}
