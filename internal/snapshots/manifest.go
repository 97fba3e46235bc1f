package snapshots

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
)

// Manifest tracks what the file target currently holds.
type Manifest struct {
	Version     int                 `json:"version"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Retention   Retention           `json:"retention"`
	Pages       map[string]PageMeta `json:"pages"`
	Archive     ArchiveMeta         `json:"archive"`
}

type Retention struct {
	ArchiveDays int `json:"archiveDays"`
}

// PageMeta describes the last write of one slug.
type PageMeta struct {
	Day       string    `json:"day"`
	Date      string    `json:"date"`
	Bytes     int       `json:"bytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ArchiveMeta struct {
	Dates []string `json:"dates"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Retention:   Retention{ArchiveDays: retentionDays},
		Pages:       map[string]PageMeta{},
		Archive:     ArchiveMeta{Dates: []string{}},
	}
}

// ReadManifest loads the manifest under basePath.
func ReadManifest(basePath string) (Manifest, error) {
	return readManifest(filepath.Join(basePath, manifestFn), 0)
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	var m Manifest
	if err := sonic.Unmarshal(data, &m); err != nil {
		return defaultManifest(retentionDays), err
	}
	if m.Pages == nil {
		m.Pages = map[string]PageMeta{}
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest, now time.Time) error {
	m.GeneratedAt = now.UTC()
	data, err := sonic.ConfigDefault.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(basePath, manifestFn), data)
}

func writeAtomic(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
