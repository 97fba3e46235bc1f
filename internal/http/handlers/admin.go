package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/http/requestutil"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
)

// Runner triggers an out-of-schedule publishing pass.
type Runner interface {
	RunNow(ctx context.Context) error
	Running() bool
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	runner  Runner
	token   string
	logger  *slog.Logger
	running atomic.Bool
	// done is signalled after each background run, for tests.
	done func(error)
}

// NewAdminHandler constructs an AdminHandler. Requests are refused when token is empty.
func NewAdminHandler(runner Runner, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		runner: runner,
		token:  token,
		logger: logger,
	}
}

// TriggerRun starts a publishing pass in the background and returns 202.
// Any pass already in flight, scheduled or admin, answers 409.
func (h *AdminHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !requestutil.TokenMatches(requestutil.BearerToken(r), h.token) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String(logging.FieldClientIP, requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.runner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "scheduler not configured", h.logger)
		return
	}
	if h.runner.Running() || !h.running.CompareAndSwap(false, true) {
		writeError(w, r, http.StatusConflict, "run already in progress", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	ctx := logging.WithLogger(context.WithoutCancel(r.Context()), logger)
	go func() {
		defer h.running.Store(false)
		err := h.runner.RunNow(ctx)
		switch {
		case errors.Is(err, appmatchday.ErrRunInProgress):
			logging.Warn(logger, "admin run skipped, scheduled run active")
		case err != nil:
			logging.Error(logger, "admin run failed", err)
		default:
			logging.Info(logger, "admin run complete")
		}
		if h.done != nil {
			h.done(err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"}, logger)
}
