package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/matchday-publisher/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.Handle("/health", handler)
	mux.Handle("/ready", handler)
	mux.Handle("/status", handler)
	mux.Handle("/pages", handler)
	mux.Handle("/pages/", handler)
	if admin != nil {
		mux.HandleFunc("/admin/run", admin.TriggerRun)
	}
	mux.Handle("/", handler)
	return mux
}
