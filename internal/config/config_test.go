package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:     "empty path uses defaults",
			filePath: "",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(128), cfg.Server.MaxUploadMB)
	assert.Equal(t, 85, cfg.Convert.Quality)
	assert.Equal(t, 8, cfg.Convert.Workers)
	assert.Equal(t, 7, cfg.Convert.AVIFSpeed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "production", cfg.App.Environment)

	// Untouched sections keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name      string
		mutate    func(*Config)
		errString string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:      "server port too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "invalid server port",
		},
		{
			name:      "server port too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			errString: "invalid server port",
		},
		{
			name:      "quality zero rejected",
			mutate:    func(c *Config) { c.Convert.Quality = 0 },
			errString: "quality must be between 1 and 100",
		},
		{
			name:      "quality above range rejected",
			mutate:    func(c *Config) { c.Convert.Quality = 101 },
			errString: "quality must be between 1 and 100",
		},
		{
			name:   "quality boundaries accepted",
			mutate: func(c *Config) { c.Convert.Quality = 1 },
		},
		{
			name:      "too many workers",
			mutate:    func(c *Config) { c.Convert.Workers = 64 },
			errString: "workers must be between",
		},
		{
			name:      "zero workers",
			mutate:    func(c *Config) { c.Convert.Workers = 0 },
			errString: "workers must be between",
		},
		{
			name:      "avif speed out of range",
			mutate:    func(c *Config) { c.Convert.AVIFSpeed = 11 },
			errString: "avif_speed must be between",
		},
		{
			name:      "history enabled without path",
			mutate:    func(c *Config) { c.History.Path = "" },
			errString: "history path is required",
		},
		{
			name:      "zero upload limit",
			mutate:    func(c *Config) { c.Server.MaxUploadMB = 0 },
			errString: "max_upload_mb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errString == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			}
		})
	}
}

func TestConfig_QualityBoundaryMax(t *testing.T) {
	cfg := Default()
	cfg.Convert.Quality = 100
	require.NoError(t, cfg.Validate())
}
