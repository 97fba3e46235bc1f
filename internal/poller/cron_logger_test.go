package poller

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogCronLoggerWritesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	l := slogCronLogger{logger: logger}

	l.Info("schedule", "entry", 1)
	l.Error(errors.New("panic in job"), "recovered", "entry", 1)

	out := buf.String()
	if !strings.Contains(out, "cron: recovered") || !strings.Contains(out, "panic in job") {
		t.Fatalf("expected error line, got %q", out)
	}
	if strings.Contains(out, "cron: schedule") {
		t.Fatalf("expected info chatter below default level, got %q", out)
	}

	slogCronLogger{}.Info("noop")
	slogCronLogger{}.Error(errors.New("x"), "noop")
}
