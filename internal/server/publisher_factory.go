package server

import (
	"log/slog"

	crerr "github.com/cockroachdb/errors"

	appmatchday "github.com/preston-bernstein/matchday-publisher/internal/app/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/config"
	"github.com/preston-bernstein/matchday-publisher/internal/http/handlers"
	"github.com/preston-bernstein/matchday-publisher/internal/snapshots"
	"github.com/preston-bernstein/matchday-publisher/internal/wordpress"
)

const userAgent = "matchday-publisher"

type publishComponents struct {
	publisher appmatchday.Publisher
	// pages is set only when the target can serve pages back for preview.
	pages  handlers.PageStore
	target string
}

func buildPublisher(cfg config.Config, logger *slog.Logger) (publishComponents, error) {
	switch cfg.Publish.Target {
	case config.TargetFile:
		dir := cfg.Publish.OutputDir
		return publishComponents{
			publisher: snapshots.NewWriter(dir, cfg.Publish.ArchiveDays),
			pages:     snapshots.NewFSStore(dir),
			target:    config.TargetFile,
		}, nil
	case config.TargetWordPress, "":
		client := wordpress.NewClient(wordpress.Config{
			BaseURL:       cfg.WordPress.URL,
			User:          cfg.WordPress.User,
			AppPassword:   cfg.WordPress.AppPassword,
			ContentType:   cfg.WordPress.ContentType,
			PostStatus:    cfg.WordPress.PostStatus,
			CreateMissing: cfg.WordPress.CreateMissing,
			WriteRetries:  cfg.WordPress.WriteRetries,
			Timeout:       cfg.WordPress.Timeout,
			UserAgent:     userAgent,
			Logger:        logger,
		})
		return publishComponents{publisher: client, target: config.TargetWordPress}, nil
	default:
		return publishComponents{}, crerr.Newf("unknown publish target %q", cfg.Publish.Target)
	}
}
