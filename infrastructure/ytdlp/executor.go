package ytdlp

import (
	"context"
	"fmt"
	"time"

	"huffduff-video/domain/media"

	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"
)

// DefaultProgressInterval is how often yt-dlp progress is reported
const DefaultProgressInterval = 500 * time.Millisecond

// Runner runs one configured download. It is satisfied by go-ytdlp and
// replaced in tests.
type Runner interface {
	Run(ctx context.Context, req *media.DownloadRequest, onUpdate func(ytdlp.ProgressUpdate)) error
}

// Executor implements media.Executor on top of yt-dlp and ffmpeg
type Executor struct {
	runner  Runner
	checker media.FileChecker
}

// ExecutorOption is a functional option for configuring Executor
type ExecutorOption func(*Executor)

// WithRunner sets a custom download runner (for testing)
func WithRunner(runner Runner) ExecutorOption {
	return func(e *Executor) {
		e.runner = runner
	}
}

// NewExecutor creates a new executor. checker verifies the audio file exists
// once the run returns.
func NewExecutor(checker media.FileChecker, opts ...ExecutorOption) *Executor {
	e := &Executor{
		runner:  NewDownloader(),
		checker: checker,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Download implements media.Executor
func (e *Executor) Download(ctx context.Context, req *media.DownloadRequest, onProgress media.ProgressFunc) (string, error) {
	var classifier media.ProgressClassifier

	runErr := e.runner.Run(ctx, req, func(update ytdlp.ProgressUpdate) {
		if onProgress != nil {
			onProgress(classifier.Classify(toEvent(update)))
		}
	})

	if runErr != nil {
		if classifier.Finished() {
			return "", fmt.Errorf("%w: %s: %w", media.ErrTranscode, req.SourceURL, runErr)
		}
		return "", fmt.Errorf("%w: %s: %w", media.ErrDownload, req.SourceURL, runErr)
	}

	output := req.OutputPath()
	if !e.checker.Exists(output) {
		return "", fmt.Errorf("%w: expected output file not found: %s", media.ErrTranscode, output)
	}

	return output, nil
}

// toEvent converts a go-ytdlp progress update to a media progress event
func toEvent(u ytdlp.ProgressUpdate) media.ProgressEvent {
	ev := media.ProgressEvent{Status: toStatus(u.Status)}
	if ev.Status != media.StatusDownloading {
		return ev
	}

	if u.TotalBytes > 0 {
		ev.Percent = u.PercentString()
	}
	if !u.Started.IsZero() {
		if elapsed := time.Since(u.Started).Seconds(); elapsed > 0 && u.DownloadedBytes > 0 {
			ev.Speed = humanize.Bytes(uint64(float64(u.DownloadedBytes)/elapsed)) + "/s"
		}
	}
	if eta := u.ETA(); eta > 0 {
		ev.ETA = eta.Round(time.Second).String()
	}
	return ev
}

func toStatus(s ytdlp.ProgressStatus) media.ProgressStatus {
	switch s {
	case ytdlp.ProgressStatusStarting:
		return media.StatusStarting
	case ytdlp.ProgressStatusDownloading:
		return media.StatusDownloading
	case ytdlp.ProgressStatusPostProcessing:
		return media.StatusTranscoding
	case ytdlp.ProgressStatusFinished:
		return media.StatusFinished
	default:
		return media.StatusError
	}
}

// Ensure Executor implements media.Executor
var _ media.Executor = (*Executor)(nil)
