package snapshots

import (
	"context"
	"os"
	"testing"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
)

func simplePage(date, slug, html string) matchday.Page {
	return matchday.Page{Day: matchday.Today, Date: date, Slug: slug, Title: "t", HTML: html}
}

func publishPage(t *testing.T, w *Writer, page matchday.Page) matchday.PublishResult {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for slug %s", page.Slug)
	}
	res, err := w.Publish(context.Background(), page)
	if err != nil {
		t.Fatalf("failed to publish %s: %v", page.Slug, err)
	}
	return res
}

func requireFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if string(data) != want {
		t.Fatalf("unexpected content in %s: %q", path, data)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
