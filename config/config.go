// Package config loads rapport settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/rapport/calendar"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "rapport.yaml"

// Config holds all rapport configuration.
type Config struct {
	// Template is the DOCX file copied for every day.
	Template string `yaml:"template"`

	// Output is the directory the month folder is created in.
	Output string `yaml:"output"`

	// Name replaces the value of the profile line. Empty leaves the
	// label alone with no value.
	Name string `yaml:"name"`

	// Prefix starts every generated file name.
	Prefix string `yaml:"prefix"`

	// Workers is the number of days generated at the same time.
	Workers int `yaml:"workers"`

	// Headers also substitutes in header and footer parts.
	Headers bool `yaml:"headers"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the logger built by the command.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Template: "Template_Rapport.docx",
		Output:   "Generated_Reports",
		Prefix:   calendar.DefaultFilePrefix,
		Workers:  1,
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override values from either source.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("RAPPORT_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("RAPPORT_OUTPUT"); v != "" {
		c.Output = v
	}
	// The name may legitimately be set to empty, so presence counts.
	if v, ok := os.LookupEnv("RAPPORT_NAME"); ok {
		c.Name = v
	}
	if v := os.Getenv("RAPPORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RAPPORT_WORKERS %q: %w", v, err)
		}
		c.Workers = n
	}
	return nil
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Template == "" {
		return errors.New("template path not configured")
	}
	if c.Output == "" {
		return errors.New("output directory not configured")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	validLevel := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging encoding: %s (valid: json, console)", c.Logging.Encoding)
	}
	return nil
}
