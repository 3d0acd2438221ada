package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const appDir = "tasktimer"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Attachment storage
	Files FilesConfig `yaml:"files"`

	// Log output
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type FilesConfig struct {
	Dir       string `yaml:"dir"`         // Root directory of the blob store
	MaxSizeMB int64  `yaml:"max_size_mb"` // Largest accepted attachment
}

type LogConfig struct {
	Path  string `yaml:"path"`  // Log file; the TUI owns the terminal
	Level string `yaml:"level"` // logrus level name
}

// MaxSizeBytes returns the attachment limit in bytes
func (f FilesConfig) MaxSizeBytes() int64 {
	return f.MaxSizeMB << 20
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", appDir)
}

// DefaultConfigPath returns ~/.config/tasktimer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "tasktimer.db"),
		},
		Files: FilesConfig{
			Dir:       filepath.Join(dir, "files"),
			MaxSizeMB: 10,
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "tasktimer.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Files.Dir == "" {
		return errors.New("files.dir is required")
	}
	if c.Files.MaxSizeMB <= 0 {
		return errors.New("files.max_size_mb must be positive")
	}
	if c.Log.Path == "" {
		return errors.New("log.path is required")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database, blob store and log directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		filepath.Dir(c.Database.Path),
		c.Files.Dir,
		filepath.Dir(c.Log.Path),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
