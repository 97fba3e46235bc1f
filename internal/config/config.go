package config

import "strings"

// Config holds runtime configuration for the publisher.
type Config struct {
	Port        string
	Provider    string
	APIFootball APIFootballConfig
	WordPress   WordPressConfig
	Publish     PublishConfig
	Schedule    ScheduleConfig
	Metrics     MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
// Call Validate before using the result; Load never fails on its own.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		Provider:    strings.ToLower(envOrDefault(envProvider, defaultProvider)),
		APIFootball: loadAPIFootball(),
		WordPress:   loadWordPress(),
		Publish:     loadPublish(),
		Schedule:    loadSchedule(),
		Metrics:     loadMetrics(),
	}
}
