package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	domainmatchday "github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/http/middleware"
	"github.com/preston-bernstein/matchday-publisher/internal/poller"
	"github.com/preston-bernstein/matchday-publisher/internal/snapshots"
	"github.com/preston-bernstein/matchday-publisher/internal/store"
	"github.com/preston-bernstein/matchday-publisher/internal/testutil"
)

type stubPages struct {
	body []byte
	err  error
}

func (s stubPages) LoadPage(slug string) ([]byte, error) {
	return s.body, s.err
}

func storeWithRun(t *testing.T, err error) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	finished := time.Date(2024, 3, 10, 6, 0, 5, 0, time.UTC)
	s.SetReport(appmatchday.Report{
		StartedAt:  finished.Add(-5 * time.Second),
		FinishedAt: finished,
		Days: []appmatchday.DayResult{
			{Day: domainmatchday.Yesterday, Date: "2024-03-09", Slug: "matches-yesterday", Matches: 5, Action: domainmatchday.ActionUnchanged},
			{Day: domainmatchday.Today, Date: "2024-03-10", Slug: "matches-today", FetchErr: errors.New("upstream timeout"), Action: domainmatchday.ActionUpdated},
		},
		Skipped: []domainmatchday.Day{domainmatchday.Tomorrow},
	}, err)
	return s
}

func TestHealth(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestStatusReportsLastRun(t *testing.T) {
	next := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	h := NewHandler(storeWithRun(t, errors.New("publish tomorrow: boom")), nil, nil, func() poller.Status {
		return poller.Status{LastSuccess: next.Add(-2 * time.Hour), NextRun: next}
	})
	h.now = testutil.NowAt(next.Add(-time.Hour))

	rr := testutil.Serve(h, http.MethodGet, "/status", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Status string `json:"status"`
		Poller struct {
			Ready   bool      `json:"ready"`
			NextRun time.Time `json:"nextRun"`
		} `json:"poller"`
		LastRun struct {
			Published int    `json:"published"`
			Error     string `json:"error"`
			Days      []struct {
				Slug       string `json:"slug"`
				Action     string `json:"action"`
				FetchError string `json:"fetchError"`
			} `json:"days"`
			Skipped []string `json:"skipped"`
		} `json:"lastRun"`
	}
	testutil.DecodeJSON(t, rr, &resp)

	if resp.Status != "degraded" {
		t.Fatalf("expected degraded status, got %s", resp.Status)
	}
	if !resp.Poller.Ready || !resp.Poller.NextRun.Equal(next) {
		t.Fatalf("unexpected poller view %+v", resp.Poller)
	}
	if resp.LastRun.Published != 2 || len(resp.LastRun.Days) != 2 {
		t.Fatalf("unexpected last run %+v", resp.LastRun)
	}
	if resp.LastRun.Days[1].FetchError != "upstream timeout" || resp.LastRun.Days[0].Action != "unchanged" {
		t.Fatalf("unexpected day views %+v", resp.LastRun.Days)
	}
	if len(resp.LastRun.Skipped) != 1 || resp.LastRun.Skipped[0] != "tomorrow" {
		t.Fatalf("expected tomorrow skipped, got %v", resp.LastRun.Skipped)
	}
}

func TestStatusBeforeFirstRun(t *testing.T) {
	h := NewHandler(store.NewMemoryStore(), nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/status", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "idle" {
		t.Fatalf("expected idle, got %v", resp["status"])
	}
	if _, ok := resp["lastRun"]; ok {
		t.Fatalf("expected no lastRun before first run")
	}
	if _, ok := resp["poller"]; ok {
		t.Fatalf("expected no poller without status func")
	}
}

func TestPagesListsOutcomes(t *testing.T) {
	h := NewHandler(storeWithRun(t, nil), nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/pages", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp struct {
		Pages []struct {
			Slug    string `json:"slug"`
			Matches int    `json:"matches"`
		} `json:"pages"`
	}
	testutil.DecodeJSON(t, rr, &resp)
	if len(resp.Pages) != 2 || resp.Pages[0].Slug != "matches-today" || resp.Pages[1].Matches != 5 {
		t.Fatalf("unexpected pages %+v", resp.Pages)
	}
}

func TestPagesWithoutReportsIsEmpty(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/pages", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"pages":[]`) {
		t.Fatalf("expected empty list, got %s", rr.Body.String())
	}
}

func TestPagePreviewServesFileTarget(t *testing.T) {
	w := testutil.NewTempWriter(t, 3)
	testutil.WritePage(t, w, "2024-03-10", "matches-today")
	h := NewHandler(nil, snapshots.NewFSStore(w.BasePath()), nil, nil)

	rr := testutil.Serve(h, http.MethodGet, "/pages/matches-today", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %s", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<div>matches-today</div>") || !strings.Contains(body, `dir="rtl"`) {
		t.Fatalf("unexpected preview body %s", body)
	}

	rr = testutil.Serve(h, http.MethodGet, "/pages/matches-tomorrow", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestPagePreviewErrors(t *testing.T) {
	tests := []struct {
		name  string
		pages PageStore
		path  string
		want  int
	}{
		{"no_store", nil, "/pages/matches-today", http.StatusNotFound},
		{"nested_slug", stubPages{}, "/pages/a/b", http.StatusBadRequest},
		{"load_failure", stubPages{err: errors.New("disk gone")}, "/pages/matches-today", http.StatusInternalServerError},
		{"missing", stubPages{err: snapshots.ErrPageNotFound}, "/pages/matches-today", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(nil, tt.pages, nil, nil)
			rr := testutil.Serve(h, http.MethodGet, tt.path, nil)
			testutil.AssertStatus(t, rr, tt.want)
		})
	}
}

func TestMethodNotAllowedHandlers(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	tests := []struct {
		name string
		path string
		fn   func(w http.ResponseWriter, r *http.Request)
	}{
		{"health", "/health", h.Health},
		{"ready", "/ready", h.Ready},
		{"status", "/status", h.Status},
		{"pages", "/pages", h.Pages},
		{"preview", "/pages/matches-today", h.PagePreview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.Serve(http.HandlerFunc(tt.fn), http.MethodPost, tt.path, nil)
			testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
			if rr.Header().Get("Allow") != http.MethodGet {
				t.Fatalf("expected Allow header, got %q", rr.Header().Get("Allow"))
			}
		})
	}
}

func TestRequestIDPropagatesThroughMiddleware(t *testing.T) {
	h := NewHandler(nil, stubPages{err: snapshots.ErrPageNotFound}, nil, nil)
	wrapped := middleware.LoggingMiddleware(nil, nil, h)

	req := httptest.NewRequest(http.MethodGet, "/pages/missing", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rr := testutil.ServeRequest(wrapped, req)

	testutil.AssertStatus(t, rr, http.StatusNotFound)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["requestId"] != "abc123" {
		t.Fatalf("expected requestId propagated, got %s", resp["requestId"])
	}
	if resp["error"] == "" {
		t.Fatalf("expected error field in response")
	}
}

func TestReady(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyWithStatus(t *testing.T) {
	h := NewHandler(nil, nil, nil, func() poller.Status {
		return poller.Status{LastSuccess: time.Now()}
	})

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestReadyNotReady(t *testing.T) {
	h := NewHandler(nil, nil, nil, func() poller.Status {
		return poller.Status{LastError: "wordpress 401"}
	})

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "wordpress 401" {
		t.Fatalf("expected last error surfaced, got %q", resp["error"])
	}
}

func TestServeHTTPNotFound(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	rr := testutil.Serve(h, http.MethodGet, "/fixtures/today", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestServeHTTPRoutes(t *testing.T) {
	h := NewHandler(store.NewMemoryStore(), nil, nil, nil)
	for _, path := range []string{"/health", "/ready", "/status", "/pages", "/pages/"} {
		rr := testutil.Serve(h, http.MethodGet, path, nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
}
