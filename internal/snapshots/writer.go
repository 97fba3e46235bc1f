package snapshots

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/preston-bernstein/matchday-publisher/internal/domain/matchday"
	"github.com/preston-bernstein/matchday-publisher/internal/timeutil"
)

const defaultRetentionDays = 14

// Writer is the file publish target: each page is written to <base>/<slug>.html,
// with a dated copy under archive/ pruned after the retention window.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time

	mu sync.Mutex
}

// NewWriter constructs a writer rooted at basePath with a rolling archive retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Publish writes the page atomically. Identical content is not rewritten.
func (w *Writer) Publish(ctx context.Context, page matchday.Page) (matchday.PublishResult, error) {
	if w == nil {
		return matchday.PublishResult{}, crerr.New("snapshots: writer not configured")
	}
	if page.Slug == "" {
		return matchday.PublishResult{}, crerr.New("snapshots: slug required")
	}
	if err := ctx.Err(); err != nil {
		return matchday.PublishResult{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	target := PagePath(w.basePath, page.Slug)
	data := []byte(page.HTML)
	result := matchday.PublishResult{Action: matchday.ActionUpdated, Location: target}

	existing, err := os.ReadFile(target)
	switch {
	case err == nil && bytes.Equal(existing, data):
		result.Action = matchday.ActionUnchanged
	case err != nil && os.IsNotExist(err):
		result.Action = matchday.ActionCreated
	}

	if result.Action != matchday.ActionUnchanged {
		if err := writeAtomic(target, data); err != nil {
			return matchday.PublishResult{}, crerr.Wrapf(err, "snapshots: write %s", target)
		}
	}
	if page.Date != "" {
		if err := writeAtomic(ArchivePath(w.basePath, page.Date, page.Slug), data); err != nil {
			return matchday.PublishResult{}, crerr.Wrap(err, "snapshots: write archive copy")
		}
	}

	if err := w.updateManifest(page, len(data), result.Action); err != nil {
		return matchday.PublishResult{}, crerr.Wrap(err, "snapshots: update manifest")
	}
	return result, nil
}

func (w *Writer) updateManifest(page matchday.Page, size int, action matchday.Action) error {
	m, _ := readManifest(filepath.Join(w.basePath, manifestFn), w.retentionDays)
	m.Retention.ArchiveDays = w.retentionDays
	now := w.now().UTC()

	meta, seen := m.Pages[page.Slug]
	if action != matchday.ActionUnchanged || !seen {
		meta.UpdatedAt = now
	}
	meta.Day = string(page.Day)
	meta.Date = page.Date
	meta.Bytes = size
	m.Pages[page.Slug] = meta

	dates, err := w.listArchiveDates()
	if err != nil {
		return err
	}
	m.Archive.Dates = w.pruneArchive(dates, now)

	return writeManifest(w.basePath, m, now)
}

func (w *Writer) listArchiveDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, archiveDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneArchive(dates []string, now time.Time) []string {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(w.basePath, archiveDir, d))
			continue
		}
		keep = append(keep, d)
	}
	return keep
}
