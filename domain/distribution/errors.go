package distribution

import "errors"

var (
	// ErrUpload is returned when the audio file cannot be transferred to the bucket
	ErrUpload = errors.New("upload failed")

	// ErrPermission is returned when public read access cannot be granted
	ErrPermission = errors.New("permission change failed")
)
