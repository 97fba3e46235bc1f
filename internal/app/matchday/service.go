package matchday

import (
	"context"
	"log/slog"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	domainmatchday "github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/domain/sections"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/metrics"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
	"github.com/preston-bernstein/matchday-publisher/internal/timeutil"
)

// ErrRunInProgress is returned when Run is called while another run is active.
var ErrRunInProgress = crerr.New("matchday run already in progress")

// Organizer groups a day's fixtures into page sections.
type Organizer interface {
	Organize(list []fixtures.Fixture) []sections.Section
}

// Renderer turns sections into the page HTML for a day.
type Renderer interface {
	Render(day domainmatchday.Day, plan domainmatchday.Plan, data []sections.Section) (string, error)
}

// Publisher delivers a rendered page to its target.
type Publisher interface {
	Publish(ctx context.Context, page domainmatchday.Page) (domainmatchday.PublishResult, error)
}

// Config controls one publishing pass.
type Config struct {
	Plan       domainmatchday.Plan
	Location   *time.Location
	SlugPrefix string
	FailFast   bool
	// Target labels publish metrics, e.g. "wordpress" or "file".
	Target string
}

// Service fetches, organizes, renders and publishes each day of the plan.
type Service struct {
	provider  providers.FixtureProvider
	organizer Organizer
	renderer  Renderer
	publisher Publisher
	cfg       Config
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time

	runMu sync.Mutex
}

// NewService wires the pipeline. A nil Location means UTC and an empty plan means
// yesterday, today and tomorrow.
func NewService(provider providers.FixtureProvider, org Organizer, renderer Renderer, publisher Publisher, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if len(cfg.Plan) == 0 {
		cfg.Plan = domainmatchday.DefaultPlan
	}
	return &Service{
		provider:  provider,
		organizer: org,
		renderer:  renderer,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		metrics:   recorder,
		now:       time.Now,
	}
}

// Run publishes every day in the plan. All dates are computed from a single
// clock reading so a run straddling midnight stays consistent. The returned
// error joins every failed day; with FailFast the remaining days are skipped.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if !s.runMu.TryLock() {
		return Report{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	now := s.now()
	report := Report{StartedAt: now}
	var errs []error

	for i, day := range s.cfg.Plan {
		res := s.runDay(ctx, day, now)
		report.Days = append(report.Days, res)
		if res.Err == nil {
			continue
		}
		errs = append(errs, crerr.Wrapf(res.Err, "publish %s (%s)", day, res.Date))
		if s.cfg.FailFast || ctx.Err() != nil {
			report.Skipped = append(report.Skipped, s.cfg.Plan[i+1:]...)
			break
		}
	}
	report.FinishedAt = s.now()

	logger := logging.FromContext(ctx, s.logger)
	if len(errs) > 0 {
		logging.Error(logger, "matchday run failed", nil,
			slog.Int("published", report.Succeeded()),
			slog.Int("failed", len(errs)),
			slog.Int("skipped", len(report.Skipped)),
		)
		return report, crerr.Join(errs...)
	}
	logging.Info(logger, "matchday run complete",
		slog.Int("published", report.Succeeded()),
		slog.Int64(logging.FieldDurationMS, report.FinishedAt.Sub(report.StartedAt).Milliseconds()),
	)
	return report, nil
}

func (s *Service) runDay(ctx context.Context, day domainmatchday.Day, now time.Time) DayResult {
	start := time.Now()
	res := DayResult{
		Day:  day,
		Date: timeutil.DateWithOffset(now, s.cfg.Location, day.Offset()),
		Slug: day.Slug(s.cfg.SlugPrefix),
	}
	logger := logging.FromContext(ctx, s.logger)
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldDay, string(day)), slog.String(logging.FieldDate, res.Date))
	}

	list, err := s.provider.FetchFixtures(ctx, res.Date, s.cfg.Location.String())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
			res.Duration = time.Since(start)
			return res
		}
		res.FetchErr = err
		list = nil
		logging.Warn(logger, "fixture fetch failed, publishing empty page", slog.Any("err", err))
	}
	res.Fixtures = len(list)

	data := s.organizer.Organize(list)
	res.Sections = len(data)
	res.Matches = sections.CountMatches(data)

	html, err := s.renderer.Render(day, s.cfg.Plan, data)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		s.metrics.RecordPublish(s.cfg.Target, string(day), "", res.Matches, res.Duration, err)
		logging.Error(logger, "render failed", err)
		return res
	}

	pub, err := s.publisher.Publish(ctx, domainmatchday.Page{
		Day:   day,
		Date:  res.Date,
		Slug:  res.Slug,
		Title: day.Title(),
		HTML:  html,
	})
	res.Duration = time.Since(start)
	s.metrics.RecordPublish(s.cfg.Target, string(day), string(pub.Action), res.Matches, res.Duration, err)
	if err != nil {
		res.Err = err
		logging.Error(logger, "publish failed", err,
			slog.String(logging.FieldSlug, res.Slug),
			slog.String(logging.FieldTarget, s.cfg.Target),
		)
		return res
	}

	res.Action = pub.Action
	res.Location = pub.Location
	logging.Info(logger, "page published",
		slog.String(logging.FieldSlug, res.Slug),
		slog.String(logging.FieldTarget, s.cfg.Target),
		slog.String("action", string(pub.Action)),
		slog.Int(logging.FieldCount, res.Matches),
		slog.Int(logging.FieldSections, res.Sections),
		slog.Int64(logging.FieldDurationMS, res.Duration.Milliseconds()),
	)
	return res
}
