package wordpress

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	crerr "github.com/cockroachdb/errors"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultContentType  = "pages"
	defaultPostStatus   = "publish"
	defaultUserAgent    = "matchday-publisher"
	defaultWriteRetries = 3
	maxErrorBody        = 512
	maxResponseBytes    = 16 << 20
)

// Config controls how the client reaches and writes to a WordPress site.
type Config struct {
	BaseURL       string
	User          string
	AppPassword   string
	ContentType   string
	PostStatus    string
	CreateMissing bool
	WriteRetries  int
	Timeout       time.Duration
	UserAgent     string
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the wp/v2 REST API with application-password basic auth.
type Client struct {
	endpoint      string
	user          string
	password      string
	postStatus    string
	createMissing bool
	writeRetries  int
	userAgent     string
	httpClient    httpDoer
	logger        *slog.Logger
	newBackOff    func() backoff.BackOff
}

// NewClient builds a client. Application passwords are shown with spaces by
// WordPress; they are removed here.
func NewClient(cfg Config) *Client {
	contentType := strings.Trim(strings.TrimSpace(cfg.ContentType), "/")
	if contentType == "" {
		contentType = defaultContentType
	}
	status := cfg.PostStatus
	if status == "" {
		status = defaultPostStatus
	}
	retries := cfg.WriteRetries
	if retries <= 0 {
		retries = defaultWriteRetries
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		doer = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/wp-json/wp/v2/" + contentType,
		user:          cfg.User,
		password:      strings.ReplaceAll(cfg.AppPassword, " ", ""),
		postStatus:    status,
		createMissing: cfg.CreateMissing,
		writeRetries:  retries,
		userAgent:     ua,
		httpClient:    doer,
		logger:        cfg.Logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

// FindBySlug returns the first item with the slug, in any status.
func (c *Client) FindBySlug(ctx context.Context, slug string) (Item, bool, error) {
	var (
		item  Item
		found bool
	)
	err := c.withRetry(ctx, "find "+slug, func() error {
		var err error
		item, found, err = c.lookup(ctx, slug)
		return err
	})
	return item, found, err
}

func (c *Client) lookup(ctx context.Context, slug string) (Item, bool, error) {
	q := url.Values{}
	q.Set("slug", slug)
	q.Set("context", "edit")
	q.Set("status", "any")

	var items []Item
	if err := c.do(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil, &items); err != nil {
		return Item{}, false, err
	}
	if len(items) == 0 {
		return Item{}, false, nil
	}
	return items[0], true, nil
}

// Create adds a new item with the given slug, title and content. Before each
// retry the slug is looked up again, so a POST that landed but lost its
// response is not sent twice.
func (c *Client) Create(ctx context.Context, slug, title, content string) (Item, error) {
	body := createRequest{Title: title, Slug: slug, Status: c.postStatus, Content: content}
	var item Item
	posted := false
	err := c.withRetry(ctx, "create "+slug, func() error {
		if posted {
			existing, found, err := c.lookup(ctx, slug)
			if err != nil {
				return err
			}
			if found {
				item = existing
				return nil
			}
		}
		posted = true
		return c.do(ctx, http.MethodPost, c.endpoint, body, &item)
	})
	return item, err
}

// Update replaces the content of an existing item.
func (c *Client) Update(ctx context.Context, id int, content string) (Item, error) {
	var item Item
	err := c.withRetry(ctx, "update "+strconv.Itoa(id), func() error {
		return c.do(ctx, http.MethodPost, c.endpoint+"/"+strconv.Itoa(id), updateRequest{Content: content}, &item)
	})
	return item, err
}

// Publish finds the page's item by slug and updates it, creating it first when
// allowed. Content already identical to the stored copy is left alone.
func (c *Client) Publish(ctx context.Context, page matchday.Page) (matchday.PublishResult, error) {
	existing, found, err := c.FindBySlug(ctx, page.Slug)
	if err != nil {
		return matchday.PublishResult{}, err
	}

	if !found {
		if !c.createMissing {
			return matchday.PublishResult{}, crerr.Wrapf(ErrNotFound, "slug %q", page.Slug)
		}
		item, err := c.Create(ctx, page.Slug, page.Title, page.HTML)
		if err != nil {
			return matchday.PublishResult{}, err
		}
		return matchday.PublishResult{Action: matchday.ActionCreated, ID: item.ID, Location: item.Link}, nil
	}

	if existing.RawContent() == page.HTML {
		return matchday.PublishResult{Action: matchday.ActionUnchanged, ID: existing.ID, Location: existing.Link}, nil
	}

	item, err := c.Update(ctx, existing.ID, page.HTML)
	if err != nil {
		return matchday.PublishResult{}, err
	}
	link := item.Link
	if link == "" {
		link = existing.Link
	}
	return matchday.PublishResult{Action: matchday.ActionUpdated, ID: existing.ID, Location: link}, nil
}

func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	attempts := 0
	operation := func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.writeRetries-1)), ctx)
	notify := func(err error, wait time.Duration) {
		if c.logger != nil {
			c.logger.Warn("wordpress request retry",
				slog.String("op", op),
				slog.Int("attempt", attempts),
				slog.Int64(logging.FieldDurationMS, wait.Milliseconds()),
				slog.Any("err", err),
			)
		}
	}
	return backoff.RetryNotify(operation, policy, notify)
}

func retryable(err error) bool {
	var statusErr *StatusError
	if crerr.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	if crerr.Is(err, context.Canceled) || crerr.Is(err, context.DeadlineExceeded) {
		return false
	}
	// transport failures
	return true
}

func (c *Client) do(ctx context.Context, method, target string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return backoff.Permanent(crerr.Wrap(err, "wordpress: marshal request"))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return backoff.Permanent(crerr.Wrap(err, "wordpress: build request"))
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Wrapf(err, "wordpress: %s %s", method, req.URL.Path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return crerr.Wrap(err, "wordpress: read response body")
	}
	if resp.StatusCode/100 != 2 {
		text := strings.TrimSpace(string(raw))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		return &StatusError{Method: method, URL: req.URL.Path, StatusCode: resp.StatusCode, Body: text}
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(crerr.Wrap(err, "wordpress: decode response"))
	}
	return nil
}
