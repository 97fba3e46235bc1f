package store

import (
	"sort"
	"sync"
	"time"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
)

// MemoryStore keeps the most recent run report and the last outcome per page slug.
type MemoryStore struct {
	mu      sync.RWMutex
	last    appmatchday.Report
	lastErr string
	runs    int
	pages   map[string]appmatchday.DayResult
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages: make(map[string]appmatchday.DayResult),
	}
}

// SetReport records a finished run. Pages not attempted in this run keep their previous outcome.
func (s *MemoryStore) SetReport(report appmatchday.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = report
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
	s.runs++
	for _, day := range report.Days {
		s.pages[day.Slug] = day
	}
}

// LastReport returns the latest report, its error text and whether any run has been recorded.
func (s *MemoryStore) LastReport() (appmatchday.Report, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr, s.runs > 0
}

// Runs returns how many reports have been recorded.
func (s *MemoryStore) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}

// ListPages returns the last known outcome of every page, sorted by slug.
func (s *MemoryStore) ListPages() []appmatchday.DayResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]appmatchday.DayResult, 0, len(s.pages))
	for _, p := range s.pages {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result
}

// GetPage retrieves the last outcome for a slug.
func (s *MemoryStore) GetPage(slug string) (appmatchday.DayResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pages[slug]
	return p, ok
}

// LastSuccess returns the finish time of the latest report with no failed day.
func (s *MemoryStore) LastSuccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runs == 0 || s.lastErr != "" {
		return time.Time{}
	}
	return s.last.FinishedAt
}
