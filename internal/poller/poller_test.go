package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/metrics"
)

type stubJob struct {
	mu     sync.Mutex
	err    error
	calls  atomic.Int32
	notify chan struct{}
	block  chan struct{}
}

func (j *stubJob) Run(ctx context.Context) (appmatchday.Report, error) {
	j.calls.Add(1)
	if j.notify != nil {
		select {
		case j.notify <- struct{}{}:
		default:
		}
	}
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
			return appmatchday.Report{}, ctx.Err()
		}
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return appmatchday.Report{Days: []appmatchday.DayResult{{Slug: "matches-today"}}}, j.err
}

func (j *stubJob) setErr(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
}

type recordingSink struct {
	mu      sync.Mutex
	reports int
	lastErr error
}

func (s *recordingSink) SetReport(report appmatchday.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports++
	s.lastErr = err
}

func newPoller(t *testing.T, job Job, sink ReportSink, opts Options) *Poller {
	t.Helper()
	if opts.Schedule == "" {
		opts.Schedule = "@every 1h"
	}
	p, err := New(job, sink, nil, metrics.NewRecorder(), opts)
	if err != nil {
		t.Fatalf("expected poller, got %v", err)
	}
	return p
}

func TestPollerRunsImmediatelyOnStart(t *testing.T) {
	job := &stubJob{notify: make(chan struct{}, 1)}
	sink := &recordingSink{}
	p := newPoller(t, job, sink, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	select {
	case <-job.notify:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial run")
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}

	if job.calls.Load() != 1 {
		t.Fatalf("expected exactly the initial run, got %d", job.calls.Load())
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.reports != 1 {
		t.Fatalf("expected report handed to sink, got %d", sink.reports)
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected ready after successful run")
	}
}

func TestPollerRunsOnSchedule(t *testing.T) {
	job := &stubJob{}
	p := newPoller(t, job, nil, Options{Schedule: "@every 1s", SkipInitialRun: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	deadline := time.After(3 * time.Second)
	for job.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for scheduled run")
		case <-time.After(20 * time.Millisecond):
		}
	}
	_ = p.Stop(context.Background())
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	job := &stubJob{notify: make(chan struct{}, 1)}
	p := newPoller(t, job, nil, Options{Schedule: "@every 1s"})
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)
	<-job.notify
	cancel()

	select {
	case <-p.done:
	case <-time.After(time.Second):
		t.Fatal("expected poller to stop after context cancel")
	}
	callsAfterStop := job.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	if job.calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional runs after stop; before=%d after=%d", callsAfterStop, job.calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := newPoller(t, &stubJob{}, nil, Options{})

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := newPoller(t, &stubJob{}, nil, Options{SkipInitialRun: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	first := p.cron
	p.Start(ctx)
	if p.cron != first {
		t.Fatalf("expected second start to be a no-op")
	}

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerStopHonorsDeadline(t *testing.T) {
	job := &stubJob{notify: make(chan struct{}, 1), block: make(chan struct{})}
	defer close(job.block)
	p := newPoller(t, job, nil, Options{})

	p.Start(context.Background())
	<-job.notify

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error while run in flight, got %v", err)
	}
}

func TestNewRejectsInvalidSchedule(t *testing.T) {
	if _, err := New(&stubJob{}, nil, nil, nil, Options{Schedule: "every now and then"}); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	p := newPoller(t, &stubJob{}, nil, Options{Schedule: "*/15 * * * *"})
	if p.opts.RunTimeout != defaultRunTimeout {
		t.Fatalf("expected default run timeout, got %s", p.opts.RunTimeout)
	}
	if p.opts.Location != time.UTC {
		t.Fatalf("expected UTC default location, got %v", p.opts.Location)
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	job := &stubJob{err: errors.New("boom")}
	sink := &recordingSink{}
	p := newPoller(t, job, sink, Options{Schedule: "0 6 * * *"})
	p.now = func() time.Time { return time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC) }

	if err := p.RunNow(context.Background()); err == nil {
		t.Fatalf("expected run error")
	}
	status := p.Status()
	if status.ConsecutiveFailures != 1 || status.LastError == "" {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if !status.LastSuccess.IsZero() || status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}
	if want := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC); !status.NextRun.Equal(want) {
		t.Fatalf("expected next run %s, got %s", want, status.NextRun)
	}
	if sink.lastErr == nil {
		t.Fatalf("expected failing report passed to sink")
	}

	job.setErr(nil)
	if err := p.RunNow(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	status = p.Status()
	if status.ConsecutiveFailures != 0 || status.LastError != "" {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestPollerIgnoresOverlappingRuns(t *testing.T) {
	job := &overlapJob{}
	sink := &recordingSink{}
	p := newPoller(t, job, sink, Options{})

	err := p.RunNow(context.Background())
	if !errors.Is(err, appmatchday.ErrRunInProgress) {
		t.Fatalf("expected run-in-progress error, got %v", err)
	}
	if p.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected overlap not counted as failure")
	}
	if sink.reports != 0 {
		t.Fatalf("expected no report for skipped run")
	}
	if !p.Status().LastAttempt.IsZero() {
		t.Fatalf("expected skipped run not recorded as an attempt")
	}
}

func TestPollerRefusesRunWhileAnotherIsInFlight(t *testing.T) {
	job := &stubJob{notify: make(chan struct{}, 1), block: make(chan struct{})}
	sink := &recordingSink{}
	p := newPoller(t, job, sink, Options{})

	if p.Running() {
		t.Fatalf("expected idle poller")
	}
	first := make(chan error, 1)
	go func() { first <- p.RunNow(context.Background()) }()
	<-job.notify

	if !p.Running() {
		t.Fatalf("expected poller to report a pass in flight")
	}
	attempt := p.Status().LastAttempt
	if err := p.RunNow(context.Background()); !errors.Is(err, appmatchday.ErrRunInProgress) {
		t.Fatalf("expected run-in-progress error, got %v", err)
	}
	if got := job.calls.Load(); got != 1 {
		t.Fatalf("expected job entered once, got %d", got)
	}
	if !p.Status().LastAttempt.Equal(attempt) {
		t.Fatalf("expected refused run to leave last attempt untouched")
	}

	close(job.block)
	if err := <-first; err != nil {
		t.Fatalf("expected first run to succeed, got %v", err)
	}
	if p.Running() {
		t.Fatalf("expected poller idle after run")
	}
	if sink.reports != 1 {
		t.Fatalf("expected one report, got %d", sink.reports)
	}
}

func TestStatusIsReady(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{"never_succeeded", Status{}, false},
		{"recent_success", Status{LastSuccess: now}, true},
		{"success_then_failures", Status{LastSuccess: now, ConsecutiveFailures: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.status.IsReady(); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

type overlapJob struct{}

func (overlapJob) Run(ctx context.Context) (appmatchday.Report, error) {
	return appmatchday.Report{}, appmatchday.ErrRunInProgress
}
