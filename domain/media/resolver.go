package media

import "context"

// Resolver defines the interface for looking up media metadata
// This is a port that can be implemented by different infrastructure adapters
type Resolver interface {
	// Resolve returns the metadata of the media behind url without downloading it
	Resolve(ctx context.Context, url string) (*Info, error)
}

// FileChecker defines the interface for checking file existence
// This is used to confirm the extracted audio file was written
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// Scratch provisions request-scoped local directories for downloaded audio
type Scratch interface {
	// MkdirTemp creates a new empty directory and returns its path
	MkdirTemp() (string, error)

	// RemoveAll deletes dir and everything in it
	RemoveAll(dir string) error
}
