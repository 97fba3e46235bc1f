package handlers

import (
	"errors"
	"html"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/poller"
	"github.com/preston-bernstein/matchday-publisher/internal/snapshots"
)

type nowFunc func() time.Time

// ReportReader exposes the outcome of recent runs.
type ReportReader interface {
	LastReport() (appmatchday.Report, string, bool)
	ListPages() []appmatchday.DayResult
}

// PageStore serves rendered pages back for preview. Only the file target has one.
type PageStore interface {
	LoadPage(slug string) ([]byte, error)
}

// Handler serves the operational endpoints of the scheduler.
type Handler struct {
	reports  ReportReader
	pages    PageStore
	logger   *slog.Logger
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults. reports, pages and statusFn may be nil.
func NewHandler(reports ReportReader, pages PageStore, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		reports:  reports,
		pages:    pages,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/status":
		h.Status(w, r)
	case r.URL.Path == "/pages" || r.URL.Path == "/pages/":
		h.Pages(w, r)
	case strings.HasPrefix(r.URL.Path, "/pages/"):
		h.PagePreview(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the process is up.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether recent scheduled runs have been succeeding.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Status returns the poller state and the last run report.
func (h *Handler) Status(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	resp := statusResponse{Status: "idle", Time: h.now().UTC()}
	if h.statusFn != nil {
		resp.Poller = newPollerView(h.statusFn())
	}
	if h.reports != nil {
		if report, errText, ok := h.reports.LastReport(); ok {
			resp.LastRun = newRunView(report, errText)
			resp.Status = "ok"
			if errText != "" {
				resp.Status = "degraded"
			}
		}
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// Pages lists the last known outcome for every page slug.
func (h *Handler) Pages(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	out := []dayView{}
	if h.reports != nil {
		for _, p := range h.reports.ListPages() {
			out = append(out, newDayView(p))
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"pages": out}, h.logger)
}

// PagePreview serves the rendered HTML of a page held by the file target.
func (h *Handler) PagePreview(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/pages/")
	if slug == "" || strings.ContainsAny(slug, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, "invalid slug", h.logger)
		return
	}
	if h.pages == nil {
		writeError(w, r, nethttp.StatusNotFound, "preview not available for this target", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	body, err := h.pages.LoadPage(slug)
	if err != nil {
		if errors.Is(err, snapshots.ErrPageNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "page not found", h.logger)
			return
		}
		logging.Error(logger, "page preview failed", err, slog.String(logging.FieldSlug, slug))
		writeError(w, r, nethttp.StatusInternalServerError, "failed to load page", h.logger)
		return
	}

	// The fragment is meant to be embedded, so wrap it in a minimal document.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><html lang=\"ar\" dir=\"rtl\"><head><meta charset=\"utf-8\"><title>"))
	_, _ = w.Write([]byte(html.EscapeString(slug)))
	_, _ = w.Write([]byte("</title></head><body>"))
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("</body></html>"))
}
