package ytdlp

import (
	"context"
	"time"

	"huffduff-video/domain/media"

	"github.com/lrstanley/go-ytdlp"
)

// Downloader runs downloads through the go-ytdlp command builder.
// Audio is always extracted as media.AudioFormat.
type Downloader struct {
	ytdlpPath    string
	ffmpegPath   string
	audioQuality string
	interval     time.Duration
}

// DownloaderOption is a functional option for configuring Downloader
type DownloaderOption func(*Downloader)

// WithYTDLPPath sets a custom yt-dlp executable path
func WithYTDLPPath(path string) DownloaderOption {
	return func(c *Downloader) {
		c.ytdlpPath = path
	}
}

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) DownloaderOption {
	return func(c *Downloader) {
		c.ffmpegPath = path
	}
}

// WithAudioQuality sets the quality passed to the audio extractor
func WithAudioQuality(quality string) DownloaderOption {
	return func(c *Downloader) {
		if quality != "" {
			c.audioQuality = quality
		}
	}
}

// NewDownloader creates a go-ytdlp backed Downloader
func NewDownloader(opts ...DownloaderOption) *Downloader {
	c := &Downloader{
		audioQuality: media.DefaultAudioQuality,
		interval:     DefaultProgressInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Downloader) command(req *media.DownloadRequest) *ytdlp.Command {
	dl := ytdlp.New().
		NoPlaylist().
		RestrictFilenames().
		ForceOverwrites().
		ExtractAudio().
		AudioFormat(media.AudioFormat).
		AudioQuality(c.audioQuality).
		Output(req.OutputTemplate())

	if c.ytdlpPath != "" {
		dl.SetExecutable(c.ytdlpPath)
	}
	if c.ffmpegPath != "" {
		dl.FFmpegLocation(c.ffmpegPath)
	}
	return dl
}

// Run implements Runner
func (c *Downloader) Run(ctx context.Context, req *media.DownloadRequest, onUpdate func(ytdlp.ProgressUpdate)) error {
	dl := c.command(req)
	dl.ProgressFunc(c.interval, onUpdate)

	_, err := dl.Run(ctx, req.SourceURL)
	return err
}

// Ensure Downloader implements Runner
var _ Runner = (*Downloader)(nil)
