package config

import (
	"fmt"
	"os"

	"huffduff-video/domain/bookmark"
	"huffduff-video/domain/media"

	"gopkg.in/yaml.v3"
)

// Defaults for settings left blank in the config file
const (
	DefaultAddress     = ":8080"
	DefaultStorageHost = "storage.googleapis.com"
	DefaultYTDLPPath   = "yt-dlp"
	DefaultFFmpegPath  = "ffmpeg"
	DefaultLogLevel    = "info"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Media    MediaConfig    `yaml:"media"`
	Bookmark BookmarkConfig `yaml:"bookmark"`
	Logs     LogsConfig     `yaml:"logs"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Address string `yaml:"address"`
}

// StorageConfig contains object storage settings
type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	CredentialsFile string `yaml:"credentials_file"`
}

// MediaConfig contains download and audio extraction settings
type MediaConfig struct {
	YTDLPPath     string `yaml:"ytdlp_path"`
	FFmpegPath    string `yaml:"ffmpeg_path"`
	AudioQuality  string `yaml:"audio_quality"`
	WorkDirectory string `yaml:"work_directory"` // Parent of per-request scratch directories; empty uses the system temp dir
}

// BookmarkConfig contains bookmarking service settings
type BookmarkConfig struct {
	BaseURL          string `yaml:"base_url"`
	DescriptionLimit int    `yaml:"description_limit"`
}

// LogsConfig contains logging settings
type LogsConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Defaults returns a configuration with every default applied
func Defaults() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills blank settings with their defaults
func (c *Config) ApplyDefaults() {
	setDefault(&c.Server.Address, DefaultAddress)
	setDefault(&c.Storage.Endpoint, DefaultStorageHost)
	setDefault(&c.Media.YTDLPPath, DefaultYTDLPPath)
	setDefault(&c.Media.FFmpegPath, DefaultFFmpegPath)
	setDefault(&c.Media.AudioQuality, media.DefaultAudioQuality)
	setDefault(&c.Bookmark.BaseURL, bookmark.DefaultBaseURL)
	setDefault(&c.Logs.Level, DefaultLogLevel)
	if c.Bookmark.DescriptionLimit <= 0 {
		c.Bookmark.DescriptionLimit = bookmark.DefaultDescriptionLimit
	}
}

// Validate checks the settings the pipeline cannot run without
func (c *Config) Validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Storage.CredentialsFile == "" {
		return fmt.Errorf("storage.credentials_file is required")
	}
	return nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
