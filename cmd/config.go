package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"huffduff-video/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long: `Show and change individual settings in the configuration file.
Settings are addressed by section and name.

Examples:
  huffduff-video config list
  huffduff-video config get storage.bucket
  huffduff-video config set media.audio_quality 128K`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigListWithDependencies(c, cfgFile, DefaultOutput)
	},
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "SETTING\tVALUE")
	for _, s := range mgr.List() {
		fmt.Fprintf(w, "%s\t%s\n", s.Key, s.Value)
	}

	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigGetWithDependencies(c, cfgFile, args[0], DefaultOutput)
	},
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	value, err := config.NewConfigManager(cfg, configPath).Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Change one setting and save the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		return RunConfigSetWithDependencies(c, cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		return err
	}

	updated, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %q\n", key, updated)
	return nil
}
