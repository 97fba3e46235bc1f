package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/metrics"
)

const (
	defaultRunTimeout = 5 * time.Minute
	readyMaxFailures  = 3
)

// Job is one publishing pass over the day plan.
type Job interface {
	Run(ctx context.Context) (appmatchday.Report, error)
}

// ReportSink keeps the latest run report, e.g. for the status endpoint.
type ReportSink interface {
	SetReport(report appmatchday.Report, err error)
}

// Options tune the schedule.
type Options struct {
	// Schedule is a standard five-field cron expression or a descriptor like "@every 15m".
	Schedule   string
	Location   *time.Location
	RunTimeout time.Duration
	// SkipInitialRun disables the run that normally happens on Start.
	SkipInitialRun bool
}

// Poller runs the publishing job on a cron schedule.
type Poller struct {
	job      Job
	sink     ReportSink
	logger   *slog.Logger
	metrics  *metrics.Recorder
	schedule cron.Schedule
	opts     Options
	now      func() time.Time

	cron     *cron.Cron
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup
	running  atomic.Bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the scheduled runs.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	NextRun             time.Time
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyMaxFailures
}

// New parses the schedule and constructs a Poller. An invalid expression is an error.
func New(job Job, sink ReportSink, logger *slog.Logger, recorder *metrics.Recorder, opts Options) (*Poller, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	schedule, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, err
	}
	return &Poller{
		job:      job,
		sink:     sink,
		logger:   logger,
		metrics:  recorder,
		schedule: schedule,
		opts:     opts,
		now:      time.Now,
		done:     make(chan struct{}),
	}, nil
}

// Start begins scheduling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	cronLogger := slogCronLogger{logger: p.logger}
	p.cron = cron.New(
		cron.WithLocation(p.opts.Location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	p.cron.Schedule(p.schedule, cron.FuncJob(func() { p.runOnce(ctx) }))
	p.cron.Start()
	p.setNextRun()

	logging.Info(p.logger, "poller started",
		slog.String("schedule", p.opts.Schedule),
		slog.String("timezone", p.opts.Location.String()),
	)

	if !p.opts.SkipInitialRun {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runOnce(ctx)
		}()
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = p.Stop(context.Background())
		case <-p.done:
		}
	}()
}

// Stop halts scheduling and waits for an in-flight run, bounded by ctx.
func (p *Poller) Stop(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		close(p.done)
		if p.cron == nil {
			return
		}
		cronDone := p.cron.Stop().Done()
		initialDone := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(initialDone)
		}()
		for _, ch := range []<-chan struct{}{cronDone, initialDone} {
			select {
			case <-ch:
			case <-ctx.Done():
				err = ctx.Err()
				return
			}
		}
		logging.Info(p.logger, "poller stopped")
	})
	return err
}

// RunNow executes one pass outside the schedule and records it like a scheduled run.
func (p *Poller) RunNow(ctx context.Context) error {
	return p.runOnce(ctx)
}

// Running reports whether a pass is currently in flight.
func (p *Poller) Running() bool {
	return p.running.Load()
}

func (p *Poller) runOnce(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		logging.Warn(p.logger, "poller run skipped, previous run still active")
		return appmatchday.ErrRunInProgress
	}
	defer p.running.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, p.opts.RunTimeout)
	defer cancel()

	start := p.now()

	report, err := p.job.Run(runCtx)
	if errors.Is(err, appmatchday.ErrRunInProgress) {
		logging.Warn(p.logger, "poller run skipped, previous run still active")
		return err
	}
	p.recordAttempt(start)
	p.metrics.RecordPollerCycle(time.Since(start), err)
	if p.sink != nil {
		p.sink.SetReport(report, err)
	}
	p.setNextRun()

	if err != nil {
		logging.Error(p.logger, "poller run failed", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return err
	}
	p.recordSuccess(start)
	logging.Info(p.logger, "poller run complete",
		slog.Int("days", len(report.Days)),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
	)
	return nil
}

func (p *Poller) setNextRun() {
	next := p.schedule.Next(p.now().In(p.opts.Location))
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.NextRun = next
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
