package wordpress

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
)

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL + "/"
	if cfg.User == "" {
		cfg.User = "editor"
	}
	if cfg.AppPassword == "" {
		cfg.AppPassword = "abcd efgh ijkl"
	}
	c := NewClient(cfg)
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func samplePage() matchday.Page {
	return matchday.Page{Day: matchday.Today, Date: "2024-05-04", Slug: "matches-today", Title: "مباريات اليوم", HTML: "<div>new</div>"}
}

func TestPublishUpdatesExistingPage(t *testing.T) {
	var updatedBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "editor" || pass != "abcdefghijkl" {
			t.Fatalf("expected basic auth with spaces stripped, got %q/%q", user, pass)
		}
		if ua := r.Header.Get("User-Agent"); ua != "ys-bot/1" {
			t.Fatalf("expected configured user agent, got %q", ua)
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/pages":
			if got := r.URL.Query().Get("slug"); got != "matches-today" {
				t.Fatalf("expected slug query, got %q", got)
			}
			_, _ = io.WriteString(w, `[{"id": 77, "slug": "matches-today", "link": "https://site.example/matches-today/", "content": {"raw": "<div>old</div>"}}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/pages/77":
			if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Fatalf("expected json content type, got %q", ct)
			}
			raw, _ := io.ReadAll(r.Body)
			_ = sonic.Unmarshal(raw, &updatedBody)
			_, _ = io.WriteString(w, `{"id": 77, "link": "https://site.example/matches-today/"}`)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{UserAgent: "ys-bot/1"})
	res, err := c.Publish(context.Background(), samplePage())
	if err != nil {
		t.Fatalf("expected publish success, got %v", err)
	}
	if res.Action != matchday.ActionUpdated || res.ID != 77 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Location != "https://site.example/matches-today/" {
		t.Fatalf("expected link as location, got %q", res.Location)
	}
	if updatedBody["content"] != "<div>new</div>" || len(updatedBody) != 1 {
		t.Fatalf("expected content-only update body, got %v", updatedBody)
	}
}

func TestPublishSkipsUnchangedContent(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
		}
		_, _ = io.WriteString(w, `[{"id": 5, "slug": "matches-today", "content": {"raw": "<div>new</div>"}}]`)
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, Config{}).Publish(context.Background(), samplePage())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Action != matchday.ActionUnchanged {
		t.Fatalf("expected unchanged, got %s", res.Action)
	}
	if posts.Load() != 0 {
		t.Fatalf("expected no write, got %d", posts.Load())
	}
}

func TestPublishMissingPageFailsWhenCreationDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected no writes, got %s", r.Method)
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{}).Publish(context.Background(), samplePage())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublishCreatesMissingPageWhenAllowed(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[]`)
		case http.MethodPost:
			if r.URL.Path != "/wp-json/wp/v2/posts" {
				t.Fatalf("expected posts endpoint, got %s", r.URL.Path)
			}
			raw, _ := io.ReadAll(r.Body)
			_ = sonic.Unmarshal(raw, &created)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id": 101, "link": "https://site.example/?p=101"}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{ContentType: "posts", CreateMissing: true, PostStatus: "draft"})
	res, err := c.Publish(context.Background(), samplePage())
	if err != nil {
		t.Fatalf("expected create success, got %v", err)
	}
	if res.Action != matchday.ActionCreated || res.ID != 101 {
		t.Fatalf("unexpected result %+v", res)
	}
	if created["slug"] != "matches-today" || created["status"] != "draft" || created["title"] != "مباريات اليوم" {
		t.Fatalf("unexpected create body %v", created)
	}
}

func TestWritesRetryOnServerErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `[{"id": 3, "content": {"raw": "old"}}]`)
			return
		}
		if attempts.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"id": 3}`)
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv, Config{WriteRetries: 3}).Publish(context.Background(), samplePage())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if res.Action != matchday.ActionUpdated || attempts.Load() != 3 {
		t.Fatalf("expected 3 update attempts, got %d (%+v)", attempts.Load(), res)
	}
}

func TestCreateRetryDoesNotDuplicateLandedPost(t *testing.T) {
	var posts atomic.Int32
	var stored atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if stored.Load() {
				_, _ = io.WriteString(w, `[{"id": 55, "slug": "matches-today", "link": "https://site.example/matches-today/"}]`)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		case http.MethodPost:
			posts.Add(1)
			stored.Store(true)
			// drop the connection after the item is stored
			conn, _, err := w.(http.Hijacker).Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			_ = conn.Close()
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{CreateMissing: true, WriteRetries: 3})
	res, err := c.Publish(context.Background(), samplePage())
	if err != nil {
		t.Fatalf("expected create to recover, got %v", err)
	}
	if posts.Load() != 1 {
		t.Fatalf("expected a single POST, got %d", posts.Load())
	}
	if res.Action != matchday.ActionCreated || res.ID != 55 {
		t.Fatalf("expected landed item reported as created, got %+v", res)
	}
}

func TestCreateRetriesWhenFirstPostDidNotLand(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[]`)
		case http.MethodPost:
			if posts.Add(1) == 1 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id": 56}`)
		}
	}))
	defer srv.Close()

	item, err := newTestClient(t, srv, Config{WriteRetries: 3}).Create(context.Background(), "matches-today", "t", "c")
	if err != nil {
		t.Fatalf("expected create success, got %v", err)
	}
	if item.ID != 56 || posts.Load() != 2 {
		t.Fatalf("expected second POST to create item, got id=%d posts=%d", item.ID, posts.Load())
	}
}

func TestWritesGiveUpAfterMaxAttempts(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, Config{WriteRetries: 2}).Update(context.Background(), 9, "x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status error, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"rest_cannot_edit"}`)
	}))
	defer srv.Close()

	_, _, err := newTestClient(t, srv, Config{WriteRetries: 5}).FindBySlug(context.Background(), "matches-today")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
	if !strings.Contains(statusErr.Body, "rest_cannot_edit") {
		t.Fatalf("expected body excerpt, got %q", statusErr.Body)
	}
	if attempts.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts.Load())
	}
}

func TestStatusErrorRetryable(t *testing.T) {
	cases := map[int]bool{400: false, 401: false, 404: false, 429: true, 500: true, 503: true}
	for code, want := range cases {
		if got := (&StatusError{StatusCode: code}).Retryable(); got != want {
			t.Fatalf("status %d: expected retryable=%v, got %v", code, want, got)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://site.example/", AppPassword: "a b"})
	if c.endpoint != "https://site.example/wp-json/wp/v2/pages" {
		t.Fatalf("unexpected endpoint %s", c.endpoint)
	}
	if c.password != "ab" || c.postStatus != defaultPostStatus || c.writeRetries != defaultWriteRetries {
		t.Fatalf("unexpected defaults %+v", c)
	}
	httpClient, ok := c.httpClient.(*http.Client)
	if !ok || httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default http client with timeout")
	}
}
