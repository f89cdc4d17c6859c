package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidValue   = errors.New("invalid value")
)

// Setting is one named config value
type Setting struct {
	Key   string
	Value string
}

// ConfigManager reads and updates individual settings by dotted key, e.g. storage.bucket
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// field binds a dotted key to a config value
type field struct {
	key string
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(key string, ptr func(*Config) *string) field {
	return field{
		key: key,
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

var fields = []field{
	stringField("server.address", func(c *Config) *string { return &c.Server.Address }),
	stringField("storage.bucket", func(c *Config) *string { return &c.Storage.Bucket }),
	stringField("storage.endpoint", func(c *Config) *string { return &c.Storage.Endpoint }),
	stringField("storage.credentials_file", func(c *Config) *string { return &c.Storage.CredentialsFile }),
	stringField("media.ytdlp_path", func(c *Config) *string { return &c.Media.YTDLPPath }),
	stringField("media.ffmpeg_path", func(c *Config) *string { return &c.Media.FFmpegPath }),
	stringField("media.audio_quality", func(c *Config) *string { return &c.Media.AudioQuality }),
	stringField("media.work_directory", func(c *Config) *string { return &c.Media.WorkDirectory }),
	stringField("bookmark.base_url", func(c *Config) *string { return &c.Bookmark.BaseURL }),
	{
		key: "bookmark.description_limit",
		get: func(c *Config) string { return strconv.Itoa(c.Bookmark.DescriptionLimit) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: description_limit must be a positive integer", ErrInvalidValue)
			}
			c.Bookmark.DescriptionLimit = n
			return nil
		},
	},
	{
		key: "logs.level",
		get: func(c *Config) string { return c.Logs.Level },
		set: func(c *Config, v string) error {
			switch strings.ToLower(v) {
			case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
				c.Logs.Level = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("%w: unknown log level %q", ErrInvalidValue, v)
		},
	},
	{
		key: "logs.json",
		get: func(c *Config) string { return strconv.FormatBool(c.Logs.JSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: logs.json must be true or false", ErrInvalidValue)
			}
			c.Logs.JSON = b
			return nil
		},
	},
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// List returns every setting in file order
func (m *ConfigManager) List() []Setting {
	settings := make([]Setting, 0, len(fields))
	for _, f := range fields {
		settings = append(settings, Setting{Key: f.key, Value: f.get(m.config)})
	}
	return settings
}

// Get returns the value of one setting
func (m *ConfigManager) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set updates one setting and saves the config file
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}
	if err := f.set(m.config, strings.TrimSpace(value)); err != nil {
		return err
	}
	return m.save()
}

func (m *ConfigManager) save() error {
	return Save(m.config, m.configPath)
}
