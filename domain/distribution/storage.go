package distribution

import "context"

// ObjectStore defines the bucket operations the pipeline needs.
// This is a port that can be implemented by different infrastructure adapters.
//
// Exists and Upload are not atomic with respect to each other: two requests for
// the same key may both see a missing object and both upload it.
type ObjectStore interface {
	// Exists reports whether an object is stored under key, without fetching it
	Exists(ctx context.Context, key string) (bool, error)

	// Upload stores the bytes of localPath under key
	Upload(ctx context.Context, req UploadRequest) error

	// MakePublic grants anonymous read access to the object
	MakePublic(ctx context.Context, key string) error

	// Delete removes the object
	Delete(ctx context.Context, key string) error

	// PublicURL returns the anonymous URL of key; it performs no network call
	PublicURL(key string) string
}

// StoredObject describes an audio object in the bucket
type StoredObject struct {
	Key       string
	PublicURL string
	Exists    bool
}
