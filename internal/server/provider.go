package server

import (
	"log/slog"

	"github.com/preston-bernstein/matchday-publisher/internal/config"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
	"github.com/preston-bernstein/matchday-publisher/internal/providers/apifootball"
	"github.com/preston-bernstein/matchday-publisher/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.FixtureProvider {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		return fixture.New()
	case config.ProviderAPIFootball:
		return apifootball.NewClient(apifootball.Config{
			BaseURL:  cfg.APIFootball.BaseURL,
			APIKey:   cfg.APIFootball.APIKey,
			Timeout:  cfg.APIFootball.Timeout,
			Timezone: cfg.Publish.Timezone,
			Logger:   logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
