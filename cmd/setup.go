package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"huffduff-video/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the storage bucket, the
service account key, the media tools and the Huffduffer settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to huffduff-video setup!")
	fmt.Println()

	cfg := config.Defaults()

	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}

	if err := promptMedia(prompter, cfg); err != nil {
		return err
	}

	if err := promptServer(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	bucket, err := prompter.Input("Cloud Storage bucket for audio files?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	cfg.Storage.Bucket = bucket

	credentials, err := prompter.Input("Path to service account key file?", "credentials.json")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if credentials == "" {
		credentials = "credentials.json"
	}
	cfg.Storage.CredentialsFile = credentials

	endpoint, err := prompter.Input("Host public audio URLs are served from?", cfg.Storage.Endpoint)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}

	return nil
}

func promptMedia(prompter Prompter, cfg *config.Config) error {
	ytdlpPath, err := prompter.Input("Path to yt-dlp?", cfg.Media.YTDLPPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ytdlpPath != "" {
		cfg.Media.YTDLPPath = ytdlpPath
	}

	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.Media.FFmpegPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.Media.FFmpegPath = ffmpegPath
	}

	quality, err := prompter.Input("Audio quality for mp3 extraction?", cfg.Media.AudioQuality)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if quality != "" {
		cfg.Media.AudioQuality = quality
	}

	return nil
}

func promptServer(prompter Prompter, cfg *config.Config) error {
	address, err := prompter.Input("Address to listen on?", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if address != "" {
		cfg.Server.Address = address
	}

	custom, err := prompter.Confirm("Use a bookmarking service other than Huffduffer?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if custom {
		base, err := prompter.Input("  Base URL:", cfg.Bookmark.BaseURL)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if base == "" {
			return fmt.Errorf("base URL is required")
		}
		cfg.Bookmark.BaseURL = base
	}

	limit, err := prompter.Input("Maximum description length?", strconv.Itoa(cfg.Bookmark.DescriptionLimit))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return fmt.Errorf("description length must be a positive integer")
		}
		cfg.Bookmark.DescriptionLimit = n
	}

	return nil
}
