package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"huffduff-video/domain/media"

	"github.com/lrstanley/go-ytdlp"
)

// DefaultResolveTimeout bounds a single metadata lookup
const DefaultResolveTimeout = 60 * time.Second

// CommandRunner executes a prepared go-ytdlp command.
// This allows replacing the yt-dlp process in tests.
type CommandRunner interface {
	Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error)
	Version(ctx context.Context, cmd *ytdlp.Command) (*ytdlp.Result, error)
}

// LibraryCommandRunner is the production CommandRunner
type LibraryCommandRunner struct{}

// Run implements CommandRunner
func (LibraryCommandRunner) Run(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, args...)
}

// Version implements CommandRunner
func (LibraryCommandRunner) Version(ctx context.Context, cmd *ytdlp.Command) (*ytdlp.Result, error) {
	return cmd.Version(ctx)
}

// Resolver implements media.Resolver by running yt-dlp in metadata-only mode
type Resolver struct {
	ytdlpPath string
	timeout   time.Duration
	runner    CommandRunner
}

// ResolverOption is a functional option for configuring Resolver
type ResolverOption func(*Resolver)

// WithResolverPath sets a custom yt-dlp executable path
func WithResolverPath(path string) ResolverOption {
	return func(r *Resolver) {
		r.ytdlpPath = path
	}
}

// WithResolverTimeout sets the metadata lookup timeout
func WithResolverTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ResolverOption {
	return func(r *Resolver) {
		r.runner = runner
	}
}

// NewResolver creates a new yt-dlp based resolver
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout: DefaultResolveTimeout,
		runner:  LibraryCommandRunner{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resolver) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if r.ytdlpPath != "" {
		cmd.SetExecutable(r.ytdlpPath)
	}
	return cmd
}

// Resolve implements media.Resolver
func (r *Resolver) Resolve(ctx context.Context, url string) (*media.Info, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := r.command().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		NoWarnings()

	result, err := r.runner.Run(ctx, cmd, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", media.ErrResolution, url, err)
	}

	// --dump-single-json prints one document on stdout
	raw := json.RawMessage(result.Stdout)
	info, err := ytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse metadata for %s: %w", media.ErrResolution, url, err)
	}

	return media.NewInfo(
		playbackURL(info, url),
		strings.TrimSpace(deref(info.Title)),
		deref(info.Description),
		info.Categories,
	), nil
}

// playbackURL prefers the page URL yt-dlp settled on, then the media URL
func playbackURL(info *ytdlp.ExtractedInfo, fallback string) string {
	if u := deref(info.WebpageURL); u != "" {
		return u
	}
	if u := deref(info.URL); u != "" {
		return u
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// VerifyInstalled checks that yt-dlp is available
func (r *Resolver) VerifyInstalled(ctx context.Context) error {
	if _, err := r.runner.Version(ctx, r.command()); err != nil {
		return fmt.Errorf("yt-dlp not found or not executable: %w", err)
	}
	return nil
}

// Ensure Resolver implements media.Resolver
var _ media.Resolver = (*Resolver)(nil)
