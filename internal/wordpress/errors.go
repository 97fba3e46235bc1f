package wordpress

import (
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
)

// ErrNotFound is returned when no item carries the slug and creation is disabled.
var ErrNotFound = crerr.New("wordpress: item not found")

// StatusError is a non-2xx answer from the REST API.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress: %s %s: status=%d body=%s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
