package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// mp3Encoder is the encoder audio extraction needs for mp3 output
const mp3Encoder = "libmp3lame"

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Probe checks the local ffmpeg build
type Probe struct {
	ffmpegPath string
	runner     CommandRunner
}

// ProbeOption is a functional option for configuring Probe
type ProbeOption func(*Probe)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) ProbeOption {
	return func(p *Probe) {
		if path != "" {
			p.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ProbeOption {
	return func(p *Probe) {
		p.runner = runner
	}
}

// NewProbe creates a new ffmpeg probe
func NewProbe(opts ...ProbeOption) *Probe {
	p := &Probe{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// VerifyInstalled checks that ffmpeg is available and can encode mp3
func (p *Probe) VerifyInstalled(ctx context.Context) error {
	if _, err := p.runner.Output(ctx, p.ffmpegPath, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}

	out, err := p.runner.Output(ctx, p.ffmpegPath, "-hide_banner", "-encoders")
	if err != nil {
		return fmt.Errorf("ffmpeg encoders could not be listed: %w", err)
	}
	if !bytes.Contains(out, []byte(mp3Encoder)) {
		return fmt.Errorf("ffmpeg was built without %s; mp3 extraction is unavailable", mp3Encoder)
	}
	return nil
}
