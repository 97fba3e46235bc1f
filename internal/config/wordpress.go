package config

import "strings"

// WordPressConfig holds the REST credentials and write behavior for the target site.
type WordPressConfig struct {
	URL           string   `env:"WP_URL" validate:"required,url"`
	User          string   `env:"WP_USER" validate:"required"`
	AppPassword   string   `env:"WP_APP_PASSWORD" validate:"required"`
	Timeout       Duration `env:"WP_TIMEOUT" validate:"gt=0"`
	ContentType   string   `env:"WP_CONTENT_TYPE" validate:"oneof=pages posts"`
	CreateMissing bool     `env:"WP_CREATE_MISSING"`
	PostStatus    string   `env:"WP_POST_STATUS" validate:"oneof=publish draft pending private"`
	WriteRetries  int      `env:"WP_WRITE_RETRIES" validate:"min=1"`
}

func loadWordPress() WordPressConfig {
	return WordPressConfig{
		URL:           strings.TrimRight(envOrDefault(envWPURL, ""), "/"),
		User:          envOrDefault(envWPUser, ""),
		AppPassword:   envOrDefault(envWPAppPassword, ""),
		Timeout:       durationEnvOrDefault(envWPTimeout, defaultWPTimeout),
		ContentType:   strings.ToLower(envOrDefault(envWPContentType, defaultWPContentType)),
		CreateMissing: boolEnvOrDefault(envWPCreate, false),
		PostStatus:    strings.ToLower(envOrDefault(envWPPostStatus, defaultWPPostStatus)),
		WriteRetries:  intEnvOrDefault(envWPWriteRetries, defaultWPWriteRetries),
	}
}
