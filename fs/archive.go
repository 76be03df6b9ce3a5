// Package fs provides file-based export of stored videos.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/govvideo"
	"gopkg.in/yaml.v2"
)

// ArchiveStore writes one YAML file per video with atomic update semantics.
// Files are saved to a temporary directory, then moved into place on Commit.
type ArchiveStore struct {
	baseDir string
	name    string
}

// NewArchiveStore creates a new ArchiveStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewArchiveStore(baseDir, name string) *ArchiveStore {
	return &ArchiveStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ArchiveStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

// Dir returns the directory holding the committed archive.
func (s *ArchiveStore) Dir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a video into the pending archive.
func (s *ArchiveStore) Save(ctx context.Context, v *govvideo.Video) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), VideoPath(v))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	content, err := FormatVideo(v)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, content, 0644)
}

// Commit replaces any previous archive with the pending one.
func (s *ArchiveStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.Dir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.Dir())
}

// Abort discards the pending archive.
func (s *ArchiveStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// VideoPath returns the archive-relative path of a video file, grouped by
// year. Example: a 2024 video with id 10 → 2024/10.yaml
func VideoPath(v *govvideo.Video) string {
	dir := "undated"
	if v.Date != nil {
		dir = strconv.Itoa(v.Date.Year())
	}
	return filepath.Join(dir, strconv.FormatInt(v.VideoID, 10)+".yaml")
}

type videoDoc struct {
	Site        string  `yaml:"site"`
	ID          int64   `yaml:"id"`
	Title       string  `yaml:"title"`
	Date        string  `yaml:"date,omitempty"`
	Duration    *string `yaml:"duration,omitempty"`
	Download    string  `yaml:"download"`
	Agenda      *string `yaml:"agenda,omitempty"`
	Stream      *string `yaml:"stream,omitempty"`
	StreamID    *string `yaml:"stream_id,omitempty"`
	PayloadHash string  `yaml:"payload_hash,omitempty"`
}

// FormatVideo renders a video as a YAML document.
func FormatVideo(v *govvideo.Video) ([]byte, error) {
	return yaml.Marshal(videoDoc{
		Site:        v.SiteSlug,
		ID:          v.VideoID,
		Title:       v.Title,
		Date:        v.DateString(),
		Duration:    v.Duration,
		Download:    v.DownloadURL,
		Agenda:      v.AgendaURL,
		Stream:      v.StreamURL,
		StreamID:    v.StreamID,
		PayloadHash: v.PayloadHash,
	})
}
