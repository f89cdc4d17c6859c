package cmd

import (
	"context"
	"fmt"

	"huffduff-video/application/pipeline"
	"huffduff-video/domain/bookmark"
	"huffduff-video/infrastructure/config"
	"huffduff-video/infrastructure/ffmpeg"
	"huffduff-video/infrastructure/filesystem"
	"huffduff-video/infrastructure/gcs"
	"huffduff-video/infrastructure/ytdlp"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// Verifier checks that an external tool is usable
type Verifier interface {
	VerifyInstalled(ctx context.Context) error
}

// Tool is a named external dependency
type Tool struct {
	Name     string
	Verifier Verifier
}

// toolsFor returns the external tools the pipeline shells out to
func toolsFor(c *config.Config) []Tool {
	return []Tool{
		{Name: "yt-dlp", Verifier: ytdlp.NewResolver(ytdlp.WithResolverPath(c.Media.YTDLPPath))},
		{Name: "ffmpeg", Verifier: ffmpeg.NewProbe(ffmpeg.WithFFmpegPath(c.Media.FFmpegPath))},
	}
}

// newPipeline wires the production pipeline from the config
func newPipeline(ctx context.Context, c *config.Config, logger logrus.FieldLogger) (*pipeline.Service, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fs := afero.NewOsFs()

	store, err := gcs.NewClient(ctx, c.Storage.CredentialsFile, c.Storage.Bucket,
		gcs.WithFs(fs),
		gcs.WithEndpoint(c.Storage.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	resolver := ytdlp.NewResolver(ytdlp.WithResolverPath(c.Media.YTDLPPath))
	executor := ytdlp.NewExecutor(
		filesystem.NewChecker(fs),
		ytdlp.WithRunner(ytdlp.NewDownloader(
			ytdlp.WithYTDLPPath(c.Media.YTDLPPath),
			ytdlp.WithFFmpegPath(c.Media.FFmpegPath),
			ytdlp.WithAudioQuality(c.Media.AudioQuality),
		)),
	)
	scratch := filesystem.NewScratch(fs, c.Media.WorkDirectory)
	builder := bookmark.NewBuilder(c.Bookmark.BaseURL, c.Bookmark.DescriptionLimit)

	return pipeline.NewService(resolver, executor, store, scratch, builder, logger), nil
}
