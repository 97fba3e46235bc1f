package handlers

import (
	"time"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/poller"
)

type dayView struct {
	Day        string `json:"day"`
	Date       string `json:"date"`
	Slug       string `json:"slug"`
	Action     string `json:"action,omitempty"`
	Location   string `json:"location,omitempty"`
	Fixtures   int    `json:"fixtures"`
	Matches    int    `json:"matches"`
	Sections   int    `json:"sections"`
	FetchError string `json:"fetchError,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

type runView struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Published  int       `json:"published"`
	Error      string    `json:"error,omitempty"`
	Days       []dayView `json:"days"`
	Skipped    []string  `json:"skipped,omitempty"`
}

type pollerView struct {
	Ready               bool       `json:"ready"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastError           string     `json:"lastError,omitempty"`
	LastAttempt         *time.Time `json:"lastAttempt,omitempty"`
	LastSuccess         *time.Time `json:"lastSuccess,omitempty"`
	NextRun             *time.Time `json:"nextRun,omitempty"`
}

type statusResponse struct {
	Status  string      `json:"status"`
	Time    time.Time   `json:"time"`
	Poller  *pollerView `json:"poller,omitempty"`
	LastRun *runView    `json:"lastRun,omitempty"`
}

func newDayView(d appmatchday.DayResult) dayView {
	v := dayView{
		Day:        string(d.Day),
		Date:       d.Date,
		Slug:       d.Slug,
		Action:     string(d.Action),
		Location:   d.Location,
		Fixtures:   d.Fixtures,
		Matches:    d.Matches,
		Sections:   d.Sections,
		DurationMS: d.Duration.Milliseconds(),
	}
	if d.FetchErr != nil {
		v.FetchError = d.FetchErr.Error()
	}
	if d.Err != nil {
		v.Error = d.Err.Error()
	}
	return v
}

func newRunView(report appmatchday.Report, errText string) *runView {
	v := &runView{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Published:  report.Succeeded(),
		Error:      errText,
		Days:       make([]dayView, 0, len(report.Days)),
	}
	for _, d := range report.Days {
		v.Days = append(v.Days, newDayView(d))
	}
	for _, d := range report.Skipped {
		v.Skipped = append(v.Skipped, string(d))
	}
	return v
}

func newPollerView(s poller.Status) *pollerView {
	return &pollerView{
		Ready:               s.IsReady(),
		ConsecutiveFailures: s.ConsecutiveFailures,
		LastError:           s.LastError,
		LastAttempt:         timePtr(s.LastAttempt),
		LastSuccess:         timePtr(s.LastSuccess),
		NextRun:             timePtr(s.NextRun),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
