package media

import "errors"

var (
	// ErrInvalidRequest is returned when a request has a bad method or no url
	ErrInvalidRequest = errors.New("invalid request")

	// ErrResolution is returned when the source cannot be recognized or is unavailable
	ErrResolution = errors.New("source could not be resolved")

	// ErrDownload is returned when fetching the source media fails
	ErrDownload = errors.New("download failed")

	// ErrTranscode is returned when audio post-processing fails
	ErrTranscode = errors.New("transcode failed")
)
