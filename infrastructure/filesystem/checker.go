package filesystem

import (
	"huffduff-video/domain/media"

	"github.com/spf13/afero"
)

// Checker implements media.FileChecker on an afero filesystem
type Checker struct {
	fs afero.Fs
}

// NewChecker creates a new filesystem checker
func NewChecker(fs afero.Fs) *Checker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Checker{fs: fs}
}

// Exists returns true if the file exists and is not a directory
func (c *Checker) Exists(path string) bool {
	info, err := c.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure Checker implements media.FileChecker
var _ media.FileChecker = (*Checker)(nil)
