package config

import "time"

const (
	envPort     = "PORT"
	envProvider = "PROVIDER"

	envFootballAPIKey      = "FOOTBALL_API_KEY"
	envFootballBaseURL     = "FOOTBALL_API_BASE_URL"
	envFootballTimeout     = "FOOTBALL_API_TIMEOUT"
	envFootballRetries     = "FOOTBALL_API_RETRIES"
	envFootballMinInterval = "FOOTBALL_API_MIN_INTERVAL"

	envWPURL          = "WP_URL"
	envWPUser         = "WP_USER"
	envWPAppPassword  = "WP_APP_PASSWORD"
	envWPTimeout      = "WP_TIMEOUT"
	envWPContentType  = "WP_CONTENT_TYPE"
	envWPCreate       = "WP_CREATE_MISSING"
	envWPPostStatus   = "WP_POST_STATUS"
	envWPWriteRetries = "WP_WRITE_RETRIES"

	envPublishTimezone    = "PUBLISH_TIMEZONE"
	envPublishDays        = "PUBLISH_DAYS"
	envPublishEncoding    = "PUBLISH_ENCODING"
	envPublishFailFast    = "PUBLISH_FAIL_FAST"
	envPublishTarget      = "PUBLISH_TARGET"
	envPublishOutputDir   = "PUBLISH_OUTPUT_DIR"
	envPublishSlugPrefix  = "PUBLISH_SLUG_PREFIX"
	envPublishArchiveDays = "PUBLISH_ARCHIVE_DAYS"

	envSchedule        = "SCHEDULE"
	envScheduleTimeout = "SCHEDULE_RUN_TIMEOUT"
	envAdminToken      = "ADMIN_TOKEN"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort     = "4000"
	defaultProvider = ProviderAPIFootball

	defaultFootballBaseURL = "https://v3.football.api-sports.io"
	defaultFootballTimeout = 25 * Duration(time.Second)
	defaultFootballRetries = 1

	defaultWPTimeout      = 30 * Duration(time.Second)
	defaultWPContentType  = "pages"
	defaultWPPostStatus   = "publish"
	defaultWPWriteRetries = 3

	defaultPublishTimezone    = "Africa/Casablanca"
	defaultPublishDays        = "yesterday,today,tomorrow"
	defaultPublishEncoding    = EncodingJSON
	defaultPublishFailFast    = true
	defaultPublishTarget      = TargetWordPress
	defaultPublishOutputDir   = "out"
	defaultPublishSlugPrefix  = "matches-"
	defaultPublishArchiveDays = 14

	// A full three-day pass with retries fits comfortably inside this.
	defaultScheduleTimeout = 5 * Duration(time.Minute)

	defaultMetricsPort = "9090"
	defaultServiceName = "matchday-publisher"
)

// Provider names.
const (
	ProviderAPIFootball = "apifootball"
	ProviderFixture     = "fixture"
)

// Publish targets.
const (
	TargetWordPress = "wordpress"
	TargetFile      = "file"
)

// Payload encodings.
const (
	EncodingJSON   = "json"
	EncodingBase64 = "base64"
)
