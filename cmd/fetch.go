package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"huffduff-video/application/pipeline"
	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/media"

	"github.com/spf13/cobra"
)

// PipelineRunner runs the huffduff pipeline for one source
type PipelineRunner interface {
	Run(ctx context.Context, req media.SourceRequest, stream *pipeline.Streamer) (*pipeline.Result, error)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Huffduff a single video from the terminal",
	Long: `Runs the full pipeline for one page URL and prints progress as it goes.
The last line is the Huffduffer link to open in a browser.

Example:
  huffduff-video fetch "https://www.youtube.com/watch?v=6dyWlM4ej3Q"`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := newPipeline(ctx, c, newLogger(c))
	if err != nil {
		return err
	}

	return RunFetchWithDependencies(ctx, svc, args[0], os.Stdout)
}

// RunFetchWithDependencies runs the fetch command with injected dependencies (for testing)
func RunFetchWithDependencies(ctx context.Context, runner PipelineRunner, url string, out OutputWriter) error {
	req, err := media.NewSourceRequest(url)
	if err != nil {
		return err
	}

	stream := pipeline.NewStreamer(out, bookmark.TextPage{})
	result, err := runner.Run(ctx, req, stream)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintf(out, "Served from %s\n", result.PublicURL)
	} else {
		fmt.Fprintf(out, "Stored at %s (%s)\n", result.PublicURL, result.Elapsed.Round(time.Millisecond))
	}
	return nil
}
