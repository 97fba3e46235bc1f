package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/snapshots"
)

// NewTempWriter returns a file-target writer rooted in a temp dir.
func NewTempWriter(t *testing.T, retention int) *snapshots.Writer {
	t.Helper()
	return snapshots.NewWriter(t.TempDir(), retention)
}

// WritePage publishes a small page for slug through the writer.
func WritePage(t *testing.T, w *snapshots.Writer, date, slug string) {
	t.Helper()
	if err := writePagePayload(w, date, slug); err != nil {
		t.Fatalf("failed to write page %s: %v", slug, err)
	}
}

func writePagePayload(w *snapshots.Writer, date, slug string) error {
	if w == nil {
		return errors.New("writer not configured")
	}
	_, err := w.Publish(context.Background(), matchday.Page{
		Day:  matchday.Today,
		Date: date,
		Slug: slug,
		HTML: "<div>" + slug + "</div>",
	})
	return err
}

// PagePath returns the expected file path for a slug.
func PagePath(w *snapshots.Writer, slug string) string {
	return snapshots.PagePath(w.BasePath(), slug)
}
