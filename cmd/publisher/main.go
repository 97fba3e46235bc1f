package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/matchday-publisher/internal/config"
	"github.com/preston-bernstein/matchday-publisher/internal/logging"
	"github.com/preston-bernstein/matchday-publisher/internal/server"
)

const appVersion = "dev"

const (
	exitOK          = 0
	exitRunFailed   = 1
	exitConfigError = 2
)

func main() {
	if os.Getenv("SKIP_PUBLISHER_RUN") == "1" {
		return
	}
	os.Exit(run())
}

func run() int {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logging.Warn(logger, "could not read .env file", slog.Any("err", envErr))
	}

	if err := cfg.Validate(); err != nil {
		logging.Error(logger, "invalid configuration", err)
		return exitConfigError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "failed to build publisher", err)
		return exitConfigError
	}

	if srv.Scheduled() {
		srv.Run(ctx, stop)
		return exitOK
	}

	report, err := srv.RunOnce(ctx)
	if err != nil {
		logging.Error(logger, "publish run failed", err,
			slog.Int("published", report.Succeeded()),
			slog.Int("failed", len(report.Failed())),
		)
		return exitRunFailed
	}
	return exitOK
}
