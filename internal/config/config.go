package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/formseed/formseed/internal/errs"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultCount           = 1
	DefaultLogLevel        = "info"
	DefaultModel           = "gpt-4o-mini"
	DefaultEndpointURL     = "https://api.openai.com/v1"
	DefaultClassifyTimeout = 20 // seconds
	DefaultMaxFileSize     = 100 * 1024 * 1024
)

// ClassifierConfig carries the credentials and endpoint for the external
// classification service.
type ClassifierConfig struct {
	APIKey      string
	Model       string
	EndpointURL string
	Timeout     time.Duration
}

// Config holds all configuration for the form seeder.
type Config struct {
	// Run configuration
	Mode          string // "cli" or "stdio" (MCP server)
	InputPath     string
	OutputPath    string
	Count         int
	Seed          uint64
	ListFields    bool
	HeuristicOnly bool

	// Classifier configuration
	APIKey          string
	Model           string
	EndpointURL     string
	ClassifyTimeout int // seconds

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:            ModeCLI,
		Count:           DefaultCount,
		Model:           DefaultModel,
		EndpointURL:     DefaultEndpointURL,
		ClassifyTimeout: DefaultClassifyTimeout,
		Version:         "1.0.0",
		ServerName:      "formseed",
		LogLevel:        DefaultLogLevel,
		MaxFileSize:     DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags, environment variables and the
// optional YAML config file, and returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	// The config file supplies classifier credentials; flags and env
	// override it.
	if path := viper.GetString("config"); path != "" {
		if err := loadConfigFile(path); err != nil {
			return nil, err
		}
	}

	populateConfigFromViper(cfg)

	if cfg.InputPath != "" {
		if expanded, err := filepath.Abs(cfg.InputPath); err == nil {
			cfg.InputPath = expanded
		}
	}
	if cfg.OutputPath != "" {
		if expanded, err := filepath.Abs(cfg.OutputPath); err == nil {
			cfg.OutputPath = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("FORMSEED")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("count", cfg.Count)
	viper.SetDefault("seed", cfg.Seed)
	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("endpoint_url", cfg.EndpointURL)
	viper.SetDefault("timeout", cfg.ClassifyTimeout)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' for one-shot filling, 'stdio' for MCP standard I/O server")
	pflag.String("input", "", "Path to the fillable PDF form")
	pflag.String("output", "", "Path for the filled output PDF (suffixed -N when count > 1)")
	pflag.String("config", "", "Path to a YAML config file with api_key, model, endpoint_url")
	pflag.Int("count", cfg.Count, "Number of independently randomized output files")
	pflag.Uint64("seed", cfg.Seed, "Seed for value generation (0 = random)")
	pflag.Int("timeout", cfg.ClassifyTimeout, "Classification request timeout in seconds")
	pflag.Bool("list-fields", false, "List the form fields and exit without filling")
	pflag.Bool("heuristic-only", false, "Classify fields with the local keyword heuristic instead of the LLM service")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input PDF size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "input", "output", "config", "count", "seed",
		"timeout", "list-fields", "heuristic-only", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// loadConfigFile merges the YAML config file into viper.
func loadConfigFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return errs.NewConfigError("config file not found at %s", path)
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	if err := viper.MergeInConfig(); err != nil {
		return errs.NewConfigError("cannot read config file %s: %v", path, err)
	}
	return nil
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nformseed - Fill PDF forms with randomized but plausible data\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input form.pdf --output filled.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input form.pdf --output filled.pdf --config config.yaml --count 5\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input form.pdf --output filled.pdf --heuristic-only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input form.pdf --list-fields\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --config config.yaml       # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FORMSEED_API_KEY       Classification service API key\n")
		fmt.Fprintf(os.Stderr, "  FORMSEED_MODEL         Classification model\n")
		fmt.Fprintf(os.Stderr, "  FORMSEED_ENDPOINT_URL  OpenAI-compatible endpoint override\n")
		fmt.Fprintf(os.Stderr, "  FORMSEED_LOGLEVEL      Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.Count = viper.GetInt("count")
	cfg.Seed = viper.GetUint64("seed")
	cfg.ListFields = viper.GetBool("list-fields")
	cfg.HeuristicOnly = viper.GetBool("heuristic-only")
	cfg.APIKey = viper.GetString("api_key")
	cfg.Model = viper.GetString("model")
	cfg.EndpointURL = viper.GetString("endpoint_url")
	cfg.ClassifyTimeout = viper.GetInt("timeout")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errs.NewConfigError("mode must be either 'cli' or 'stdio'")
	}

	// Stdio mode receives paths per tool call, not up front.
	if c.Mode == ModeCLI {
		if c.InputPath == "" {
			return errs.NewConfigError("input path is required")
		}
		if !c.ListFields && c.OutputPath == "" {
			return errs.NewConfigError("output path is required")
		}
	}

	// The credential is required up front; degrading to the heuristic is an
	// explicit choice, not a silent fallback. Listing fields never classifies.
	if c.APIKey == "" && !c.HeuristicOnly && !c.ListFields {
		return errs.NewConfigError("api_key is required (set it in the config file or FORMSEED_API_KEY, or pass --heuristic-only)")
	}

	if c.Count < 1 {
		return errs.NewConfigError("count must be at least 1")
	}

	if c.ClassifyTimeout < 1 {
		return errs.NewConfigError("timeout must be at least 1 second")
	}

	if c.MaxFileSize <= 0 {
		return errs.NewConfigError("maximum file size must be positive")
	}

	if c.Model == "" {
		return errs.NewConfigError("model cannot be empty")
	}
	if c.EndpointURL == "" {
		return errs.NewConfigError("endpoint_url cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return errs.NewConfigError("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Classifier returns the classifier-facing slice of the configuration.
func (c *Config) Classifier() ClassifierConfig {
	return ClassifierConfig{
		APIKey:      c.APIKey,
		Model:       c.Model,
		EndpointURL: c.EndpointURL,
		Timeout:     time.Duration(c.ClassifyTimeout) * time.Second,
	}
}

// HasAPIKey reports whether a classification service credential is present.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP stdio server.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration. The API key
// is deliberately omitted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, Count: %d, Model: %s, Endpoint: %s, LogLevel: %s}",
		c.Mode, c.InputPath, c.OutputPath, c.Count, c.Model, c.EndpointURL, c.LogLevel)
}
