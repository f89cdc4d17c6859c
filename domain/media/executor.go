package media

import "context"

// ProgressFunc receives progress events while a download runs
type ProgressFunc func(ProgressEvent)

// Executor defines the interface for download and audio extraction operations
// This is a port that can be implemented by different infrastructure adapters
type Executor interface {
	// Download fetches the source of req and writes a single audio file to
	// req.OutputPath(). onProgress is called synchronously, in order, for every
	// event the download emits.
	Download(ctx context.Context, req *DownloadRequest, onProgress ProgressFunc) (string, error)
}
