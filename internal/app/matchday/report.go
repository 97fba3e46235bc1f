package matchday

import (
	"time"

	domainmatchday "github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
)

// DayResult is the outcome of publishing one day page.
type DayResult struct {
	Day      domainmatchday.Day
	Date     string
	Slug     string
	Fixtures int
	Matches  int
	Sections int
	// FetchErr is set when the upstream failed and an empty page was published instead.
	FetchErr error
	Action   domainmatchday.Action
	Location string
	Err      error
	Duration time.Duration
}

// OK reports whether the page reached the target.
func (r DayResult) OK() bool {
	return r.Err == nil
}

// Report summarizes one run over the day plan.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Days       []DayResult
	// Skipped lists days never attempted because an earlier day failed.
	Skipped []domainmatchday.Day
}

// Failed returns the days that did not publish.
func (r Report) Failed() []DayResult {
	var out []DayResult
	for _, d := range r.Days {
		if !d.OK() {
			out = append(out, d)
		}
	}
	return out
}

// Succeeded counts the days that published.
func (r Report) Succeeded() int {
	n := 0
	for _, d := range r.Days {
		if d.OK() {
			n++
		}
	}
	return n
}
