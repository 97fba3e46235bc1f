package snapshots

import (
	"os"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// ErrPageNotFound is returned when the file target has no copy of a slug.
var ErrPageNotFound = crerr.New("snapshots: page not found")

// FSStore reads pages back from the file target, e.g. to preview them over HTTP.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed page store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadPage returns the current HTML for slug.
func (s *FSStore) LoadPage(slug string) ([]byte, error) {
	if s == nil {
		return nil, crerr.New("snapshots: store not configured")
	}
	if !validSlug(slug) {
		return nil, ErrPageNotFound
	}
	data, err := os.ReadFile(PagePath(s.basePath, slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return data, nil
}

// Slugs lists the pages currently held, sorted.
func (s *FSStore) Slugs() ([]string, error) {
	if s == nil {
		return nil, crerr.New("snapshots: store not configured")
	}
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*"+pageExt))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(filepath.Base(m), pageExt))
	}
	return out, nil
}

// validSlug keeps lookups inside basePath.
func validSlug(slug string) bool {
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return false
	}
	return true
}
