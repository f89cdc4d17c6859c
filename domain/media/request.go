package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"huffduff-video/domain/distribution"
)

// AudioFormat is the only format audio is extracted to; storage keys and
// upload content types depend on it.
const AudioFormat = "mp3"

// DefaultAudioQuality is the extractor quality used when none is configured
const DefaultAudioQuality = "192K"

// SourceRequest is the page URL a client asked to huffduff
type SourceRequest struct {
	URL string
}

// NewSourceRequest creates a SourceRequest with validation
func NewSourceRequest(url string) (SourceRequest, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return SourceRequest{}, fmt.Errorf("%w: missing required parameter: url", ErrInvalidRequest)
	}
	return SourceRequest{URL: url}, nil
}

// Key returns the storage key derived from the request URL
func (r SourceRequest) Key() string {
	return distribution.DeriveKey(r.URL)
}

// DownloadRequest represents a request to fetch a source and extract its audio
type DownloadRequest struct {
	SourceURL string
	OutputDir string
	Key       string // Storage key; the local file is named after it
}

// NewDownloadRequest creates a new DownloadRequest with validation
func NewDownloadRequest(sourceURL, outputDir string) (*DownloadRequest, error) {
	if sourceURL == "" {
		return nil, fmt.Errorf("source url is required")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	return &DownloadRequest{
		SourceURL: sourceURL,
		OutputDir: outputDir,
		Key:       distribution.DeriveKey(sourceURL),
	}, nil
}

// OutputFilename returns the final audio filename, identical to the storage key
func (r *DownloadRequest) OutputFilename() string {
	return r.Key
}

// OutputPath returns the full path of the audio file once extraction finishes
func (r *DownloadRequest) OutputPath() string {
	return filepath.Join(r.OutputDir, r.OutputFilename())
}

// OutputTemplate returns the media tool output template. The tool substitutes
// %(ext)s with the container it downloads, and the audio post-processor then
// rewrites the extension to the audio format. Literal '%' is escaped.
func (r *DownloadRequest) OutputTemplate() string {
	stem := strings.TrimSuffix(r.Key, distribution.AudioExtension)
	stem = strings.ReplaceAll(stem, "%", "%%")
	return filepath.Join(r.OutputDir, stem+".%(ext)s")
}
