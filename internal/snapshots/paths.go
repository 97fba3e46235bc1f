package snapshots

import "path/filepath"

const (
	pageExt    = ".html"
	archiveDir = "archive"
	manifestFn = "manifest.json"
)

// PagePath is where the current copy of a page lives.
func PagePath(basePath, slug string) string {
	return filepath.Join(basePath, slug+pageExt)
}

// ArchivePath is the dated copy kept for the retention window.
func ArchivePath(basePath, date, slug string) string {
	return filepath.Join(basePath, archiveDir, date, slug+pageExt)
}
