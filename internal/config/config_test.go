package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formseed/formseed/internal/errs"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.InputPath = "/tmp/form.pdf"
	cfg.OutputPath = "/tmp/filled.pdf"
	cfg.APIKey = "sk-test"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeCLI, cfg.Mode)
	assert.Equal(t, DefaultCount, cfg.Count)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultEndpointURL, cfg.EndpointURL)
	assert.Equal(t, DefaultClassifyTimeout, cfg.ClassifyTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, uint64(0), cfg.Seed)
	assert.False(t, cfg.HasAPIKey())
	assert.False(t, cfg.HeuristicOnly)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid_cli",
			mutate: func(c *Config) {},
		},
		{
			name: "valid_stdio_without_paths",
			mutate: func(c *Config) {
				c.Mode = ModeStdio
				c.InputPath = ""
				c.OutputPath = ""
			},
		},
		{
			name: "valid_list_fields_without_output",
			mutate: func(c *Config) {
				c.ListFields = true
				c.OutputPath = ""
			},
		},
		{
			name: "valid_heuristic_only_without_api_key",
			mutate: func(c *Config) {
				c.APIKey = ""
				c.HeuristicOnly = true
			},
		},
		{
			name: "valid_list_fields_without_api_key",
			mutate: func(c *Config) {
				c.APIKey = ""
				c.ListFields = true
			},
		},
		{
			name:    "invalid_mode",
			mutate:  func(c *Config) { c.Mode = "http" },
			wantErr: "mode",
		},
		{
			name:    "missing_api_key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: "api_key",
		},
		{
			name: "missing_api_key_stdio",
			mutate: func(c *Config) {
				c.Mode = ModeStdio
				c.APIKey = ""
			},
			wantErr: "api_key",
		},
		{
			name:    "missing_input",
			mutate:  func(c *Config) { c.InputPath = "" },
			wantErr: "input",
		},
		{
			name:    "missing_output",
			mutate:  func(c *Config) { c.OutputPath = "" },
			wantErr: "output",
		},
		{
			name:    "zero_count",
			mutate:  func(c *Config) { c.Count = 0 },
			wantErr: "count",
		},
		{
			name:    "zero_timeout",
			mutate:  func(c *Config) { c.ClassifyTimeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "negative_max_file_size",
			mutate:  func(c *Config) { c.MaxFileSize = -1 },
			wantErr: "file size",
		},
		{
			name:    "empty_model",
			mutate:  func(c *Config) { c.Model = "" },
			wantErr: "model",
		},
		{
			name:    "empty_endpoint",
			mutate:  func(c *Config) { c.EndpointURL = "" },
			wantErr: "endpoint_url",
		},
		{
			name:    "bad_log_level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cfgErr *errs.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "validation errors should be ConfigError")
		})
	}
}

func TestConfig_Classifier(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-4o-mini"
	cfg.EndpointURL = "https://llm.internal/v1"
	cfg.ClassifyTimeout = 30

	cc := cfg.Classifier()
	assert.Equal(t, "sk-test", cc.APIKey)
	assert.Equal(t, "gpt-4o-mini", cc.Model)
	assert.Equal(t, "https://llm.internal/v1", cc.EndpointURL)
	assert.Equal(t, 30*time.Second, cc.Timeout)
	assert.True(t, cfg.HasAPIKey())
}

func TestConfig_String_OmitsAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = "sk-secret-value"

	assert.NotContains(t, cfg.String(), "sk-secret-value")
	assert.Contains(t, cfg.String(), cfg.Model)
}

func TestConfig_ModeHelpers(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.IsStdioMode())
	assert.False(t, cfg.IsDebug())

	cfg.Mode = ModeStdio
	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsStdioMode())
	assert.True(t, cfg.IsDebug())
}
