package apifootball

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/providers"
	"github.com/preston-bernstein/matchday-publisher/internal/timeutil"
)

// Config controls how the api-sports client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
	Timezone   string
	Logger     *slog.Logger
}

// Client fetches fixtures from the api-sports v3 football API and maps them to domain models.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	now        func() time.Time
	loc        *time.Location
	logger     *slog.Logger
}

// NewClient constructs an api-sports client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		now:        time.Now,
		loc:        resolveLocation(cfg.Timezone),
		logger:     cfg.Logger,
	}
}

// FetchFixtures retrieves every fixture on the given date, as seen from tz.
func (c *Client) FetchFixtures(ctx context.Context, date string, tz string) ([]fixtures.Fixture, error) {
	loc := c.loc
	if tz != "" {
		if override := providers.ResolveTimezone(tz); override != nil {
			loc = override
		}
	}

	req, err := c.buildRequest(ctx, c.resolveDate(date, loc), loc.String())
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "apifootball: send request")
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
	if err != nil {
		return nil, crerr.Wrap(err, "apifootball: read response body")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Remaining:  resp.Header.Get("x-ratelimit-requests-remaining"),
			Message:    "apifootball: rate limited: " + excerpt(body),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Newf("apifootball: unexpected status %d: %s", resp.StatusCode, excerpt(body))
	}

	var payload fixturesEnvelope
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, crerr.Wrap(err, "apifootball: decode fixtures payload")
	}
	if err := upstreamError(payload.Errors, resp.Header); err != nil {
		return nil, err
	}

	out, skipped := decodeFixtures(payload.Response)
	if skipped > 0 {
		logging.Warn(logging.FromContext(ctx, c.logger), "skipped malformed fixtures",
			slog.String(logging.FieldProvider, providerName),
			slog.String(logging.FieldDate, date),
			slog.Int(logging.FieldCount, skipped),
		)
	}
	return out, nil
}

// decodeFixtures maps each raw fixture on its own and reports how many failed to decode.
func decodeFixtures(raw []sonic.NoCopyRawMessage) ([]fixtures.Fixture, int) {
	out := make([]fixtures.Fixture, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		var f fixtureResponse
		if err := sonic.Unmarshal(item, &f); err != nil {
			skipped++
			continue
		}
		out = append(out, mapFixture(f))
	}
	return out, skipped
}

func (c *Client) buildRequest(ctx context.Context, date string, tz string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+fixturesPath, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "apifootball: build request")
	}

	q := url.Values{}
	q.Set("date", date)
	q.Set("timezone", tz)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	return req, nil
}

func (c *Client) resolveDate(date string, loc *time.Location) string {
	if date != "" {
		if _, err := timeutil.ParseDate(date); err == nil {
			return date
		}
	}
	return timeutil.FormatDate(c.now().In(loc))
}

// upstreamError turns the envelope's errors field into a Go error. The field is
// an empty array when the call succeeded and an object (occasionally a non-empty
// array) otherwise; api-sports still answers 200 in that case.
func upstreamError(raw any, header http.Header) error {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		if len(v) == 0 {
			return nil
		}
		msgs := make([]string, 0, len(v))
		for _, item := range v {
			msgs = append(msgs, fmt.Sprint(item))
		}
		return crerr.Newf("apifootball: upstream errors: %s", strings.Join(msgs, "; "))
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		msgs := make([]string, 0, len(keys))
		limited := false
		for _, k := range keys {
			msgs = append(msgs, fmt.Sprintf("%s: %v", k, v[k]))
			if _, ok := rateLimitErrorKeys[strings.ToLower(k)]; ok {
				limited = true
			}
		}
		msg := "apifootball: upstream errors: " + strings.Join(msgs, "; ")
		if limited {
			return &providers.RateLimitError{
				Provider:   providerName,
				StatusCode: http.StatusOK,
				RetryAfter: parseRetryAfter(header.Get("Retry-After")),
				Remaining:  header.Get("x-ratelimit-requests-remaining"),
				Message:    msg,
			}
		}
		return crerr.New(msg)
	default:
		return crerr.Newf("apifootball: unexpected errors field %v", v)
	}
}
