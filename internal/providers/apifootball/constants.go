package apifootball

import "time"

const (
	providerName       = "apifootball"
	defaultBaseURL     = "https://v3.football.api-sports.io"
	defaultHTTPTimeout = 25 * time.Second
	defaultTimezone    = "Africa/Casablanca"
	fixturesPath       = "/fixtures"
	apiKeyHeader       = "x-apisports-key"
	maxBodyBytes       = 8 << 20
	maxExcerptBytes    = 512
)

// Upstream error keys that mean "quota exhausted" rather than a bad request.
var rateLimitErrorKeys = map[string]struct{}{
	"requests":  {},
	"ratelimit": {},
}
