package distribution

// UploadRequest contains the parameters needed to upload a file to the bucket
type UploadRequest struct {
	Key       string // Object key in the bucket
	LocalPath string // Full path to the local file
	MimeType  string // MIME type of the file
}

// MIME type constants for stored media
const (
	MimeTypeMP3 = "audio/mpeg"
)
