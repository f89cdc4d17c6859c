package filesystem

import (
	"fmt"

	"huffduff-video/domain/media"

	"github.com/spf13/afero"
)

// scratchPrefix names every per-request working directory
const scratchPrefix = "huffduff-video-"

// Scratch implements media.Scratch, creating one private directory per run
// under a base directory
type Scratch struct {
	fs   afero.Fs
	base string
}

// NewScratch creates a Scratch rooted at base. An empty base uses the
// system temporary directory.
func NewScratch(fs afero.Fs, base string) *Scratch {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scratch{fs: fs, base: base}
}

// MkdirTemp creates a fresh, uniquely named directory
func (s *Scratch) MkdirTemp() (string, error) {
	if s.base != "" {
		if err := s.fs.MkdirAll(s.base, 0o755); err != nil {
			return "", fmt.Errorf("failed to create work directory %s: %w", s.base, err)
		}
	}
	dir, err := afero.TempDir(s.fs, s.base, scratchPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}

// RemoveAll deletes dir and everything in it
func (s *Scratch) RemoveAll(dir string) error {
	return s.fs.RemoveAll(dir)
}

// Ensure Scratch implements media.Scratch
var _ media.Scratch = (*Scratch)(nil)
