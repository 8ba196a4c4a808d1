package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quangtb/nextimg/internal/batch"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Convert ConvertConfig `yaml:"convert"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
	App     AppConfig     `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
}

// ConvertConfig holds conversion defaults
type ConvertConfig struct {
	Quality   int `yaml:"quality"`
	Workers   int `yaml:"workers"`
	AVIFSpeed int `yaml:"avif_speed"`
}

// HistoryConfig holds the batch history store configuration
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     60 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     90 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadMB:     256,
		},
		Convert: ConvertConfig{
			Quality:   80,
			Workers:   12,
			AVIFSpeed: 6,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		App: AppConfig{
			Name:        "nextimg",
			Version:     "dev",
			Environment: "development",
		},
	}
}

// DefaultHistoryPath places the history database under the user cache
// directory, falling back to the working directory when it is unknown.
func DefaultHistoryPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "nextimg-history.db"
	}
	return filepath.Join(cacheDir, "nextimg", "history.db")
}

// Load reads and parses the configuration file on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be greater than 0")
	}

	if c.Convert.Quality < 1 || c.Convert.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Convert.Quality)
	}

	if c.Convert.Workers < 1 || c.Convert.Workers > batch.MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", batch.MaxWorkers, c.Convert.Workers)
	}

	if c.Convert.AVIFSpeed < 0 || c.Convert.AVIFSpeed > 10 {
		return fmt.Errorf("avif_speed must be between 0 and 10, got %d", c.Convert.AVIFSpeed)
	}

	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}

	return nil
}
