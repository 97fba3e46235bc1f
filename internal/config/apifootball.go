package config

// APIFootballConfig controls how we talk to the api-sports fixtures API.
type APIFootballConfig struct {
	BaseURL     string   `env:"FOOTBALL_API_BASE_URL" validate:"required,url"`
	APIKey      string   `env:"FOOTBALL_API_KEY" validate:"required"`
	Timeout     Duration `env:"FOOTBALL_API_TIMEOUT" validate:"gt=0"`
	Retries     int      `env:"FOOTBALL_API_RETRIES" validate:"min=1"`
	MinInterval Duration `env:"FOOTBALL_API_MIN_INTERVAL" validate:"gte=0"`
}

func loadAPIFootball() APIFootballConfig {
	return APIFootballConfig{
		BaseURL:     envOrDefault(envFootballBaseURL, defaultFootballBaseURL),
		APIKey:      envOrDefault(envFootballAPIKey, ""),
		Timeout:     durationEnvOrDefault(envFootballTimeout, defaultFootballTimeout),
		Retries:     intEnvOrDefault(envFootballRetries, defaultFootballRetries),
		MinInterval: optionalDurationEnv(envFootballMinInterval),
	}
}
