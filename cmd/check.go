package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify yt-dlp and ffmpeg are installed",
	Long: `Runs each external tool with its version flag and reports the result.

Example:
  huffduff-video check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	return RunCheckWithDependencies(cmd.Context(), toolsFor(c), os.Stdout)
}

// RunCheckWithDependencies verifies every tool and reports each result
func RunCheckWithDependencies(ctx context.Context, tools []Tool, out OutputWriter) error {
	var failed int
	for _, tool := range tools {
		if err := tool.Verifier.VerifyInstalled(ctx); err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", tool.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", tool.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tools unavailable", failed, len(tools))
	}
	return nil
}
