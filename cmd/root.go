package cmd

import (
	"fmt"
	"os"

	"huffduff-video/infrastructure/config"
	"huffduff-video/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "huffduff-video",
	Short: "Turn video pages into podcast-ready audio on Huffduffer",
	Long: `huffduff-video takes the URL of a page with a video on it and:

  - Resolves the video and its title, description and tags
  - Extracts the audio track as MP3
  - Uploads it to a public Cloud Storage bucket
  - Redirects to Huffduffer with the bookmark form filled in

Audio already in the bucket is never downloaded twice.

Example:
  huffduff-video serve
  huffduff-video fetch "https://www.youtube.com/watch?v=6dyWlM4ej3Q"`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// requireConfig returns the loaded configuration or an error telling the user to run setup
func requireConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config file not found. Run 'huffduff-video setup' first")
	}
	return cfg, nil
}

// newLogger creates the logger described by the config
func newLogger(c *config.Config) *logrus.Logger {
	return logging.New(logging.Options{
		Level: c.Logs.Level,
		JSON:  c.Logs.JSON,
	})
}
