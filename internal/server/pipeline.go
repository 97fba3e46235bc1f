package server

import (
	"log/slog"
	"time"

	crerr "github.com/cockroachdb/errors"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/catalog"
	"github.com/preston-bernstein/matchday-publisher/internal/config"
	domainmatchday "github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/http/handlers"
	"github.com/preston-bernstein/matchday-publisher/internal/metrics"
	"github.com/preston-bernstein/matchday-publisher/internal/organizer"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
	"github.com/preston-bernstein/matchday-publisher/internal/render"
)

type pipeline struct {
	service  *appmatchday.Service
	pages    handlers.PageStore
	location *time.Location
	target   string
}

// buildPipeline wires provider → organizer → renderer → publisher for the configured day plan.
func buildPipeline(cfg config.Config, provider providers.FixtureProvider, logger *slog.Logger, recorder *metrics.Recorder) (pipeline, error) {
	loc := time.UTC
	if cfg.Publish.Timezone != "" {
		l, err := time.LoadLocation(cfg.Publish.Timezone)
		if err != nil {
			return pipeline{}, crerr.Wrapf(err, "load timezone %q", cfg.Publish.Timezone)
		}
		loc = l
	}

	plan := domainmatchday.DefaultPlan
	if len(cfg.Publish.Days) > 0 {
		p, err := domainmatchday.ParsePlan(cfg.Publish.Days)
		if err != nil {
			return pipeline{}, crerr.Wrap(err, "parse day plan")
		}
		plan = p
	}

	renderer, err := render.New(render.Options{
		Encoding:   cfg.Publish.Encoding,
		SlugPrefix: cfg.Publish.SlugPrefix,
	})
	if err != nil {
		return pipeline{}, crerr.Wrap(err, "build renderer")
	}

	pub, err := buildPublisher(cfg, logger)
	if err != nil {
		return pipeline{}, err
	}

	svc := appmatchday.NewService(
		provider,
		organizer.New(catalog.Default(), loc, logger),
		renderer,
		pub.publisher,
		appmatchday.Config{
			Plan:       plan,
			Location:   loc,
			SlugPrefix: cfg.Publish.SlugPrefix,
			FailFast:   cfg.Publish.FailFast,
			Target:     pub.target,
		},
		logger,
		recorder,
	)
	return pipeline{service: svc, pages: pub.pages, location: loc, target: pub.target}, nil
}
