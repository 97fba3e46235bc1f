package config

import "strings"

// PublishConfig controls which days are rendered and where the result goes.
type PublishConfig struct {
	Timezone   string   `env:"PUBLISH_TIMEZONE" validate:"required,timezone"`
	Days       []string `env:"PUBLISH_DAYS" validate:"min=1,unique,dive,oneof=yesterday today tomorrow"`
	Encoding   string   `env:"PUBLISH_ENCODING" validate:"oneof=json base64"`
	FailFast   bool     `env:"PUBLISH_FAIL_FAST"`
	Target     string   `env:"PUBLISH_TARGET" validate:"oneof=wordpress file"`
	OutputDir  string   `env:"PUBLISH_OUTPUT_DIR" validate:"required_if=Target file"`
	SlugPrefix string   `env:"PUBLISH_SLUG_PREFIX"`
	// ArchiveDays is how long the file target keeps dated copies.
	ArchiveDays int `env:"PUBLISH_ARCHIVE_DAYS" validate:"min=1"`
}

func loadPublish() PublishConfig {
	return PublishConfig{
		Timezone:    envOrDefault(envPublishTimezone, defaultPublishTimezone),
		Days:        listEnvOrDefault(envPublishDays, defaultPublishDays),
		Encoding:    strings.ToLower(envOrDefault(envPublishEncoding, defaultPublishEncoding)),
		FailFast:    boolEnvOrDefault(envPublishFailFast, defaultPublishFailFast),
		Target:      strings.ToLower(envOrDefault(envPublishTarget, defaultPublishTarget)),
		OutputDir:   envOrDefault(envPublishOutputDir, defaultPublishOutputDir),
		SlugPrefix:  envOrDefault(envPublishSlugPrefix, defaultPublishSlugPrefix),
		ArchiveDays: intEnvOrDefault(envPublishArchiveDays, defaultPublishArchiveDays),
	}
}

// ScheduleConfig switches the binary from a one-shot run to a long-running scheduler.
type ScheduleConfig struct {
	Cron       string   `env:"SCHEDULE" validate:"omitempty,cron"`
	RunTimeout Duration `env:"SCHEDULE_RUN_TIMEOUT" validate:"gt=0"`
	// AdminToken enables POST /admin/run when set.
	AdminToken string `env:"ADMIN_TOKEN"`
}

// Enabled reports whether a cron expression was configured.
func (s ScheduleConfig) Enabled() bool {
	return s.Cron != ""
}

func loadSchedule() ScheduleConfig {
	return ScheduleConfig{
		Cron:       envOrDefault(envSchedule, ""),
		RunTimeout: durationEnvOrDefault(envScheduleTimeout, defaultScheduleTimeout),
		AdminToken: envOrDefault(envAdminToken, ""),
	}
}
