// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/lebenslauf/internal/i18n"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment
// variables or CLI flags.
type Config struct {
	// Storage
	DataDir      string `json:"data_dir,omitempty"`      // Directory backing the local store
	StorageQuota int64  `json:"storage_quota,omitempty"` // Local store quota in bytes

	// Server
	Port        int    `json:"port,omitempty"`         // HTTP port for serve
	DefaultLang string `json:"default_lang,omitempty"` // Language used when none is negotiated
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL for comments; empty disables them

	// Export
	ChromePath    string `json:"chrome_path,omitempty"`    // Chrome binary override
	ImageTimeout  string `json:"image_timeout,omitempty"`  // Max wait for images before capture, e.g. "5s"
	ViewportWidth int    `json:"viewport_width,omitempty"` // Headless window width in CSS pixels

	Verbose bool `json:"verbose,omitempty"` // Print debug logs
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DataDir:       "./lebenslauf-data",
		StorageQuota:  5 * 1024 * 1024,
		Port:          8080,
		DefaultLang:   string(i18n.Default),
		ImageTimeout:  "5s",
		ViewportWidth: 1280,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the LEBENSLAUF_* variables plus DATABASE_URL and CHROME_PATH.
// Unset or unparsable numbers and booleans are left zero.
func FromEnv() Config {
	var c Config
	c.DataDir = os.Getenv("LEBENSLAUF_DATA_DIR")
	c.DefaultLang = os.Getenv("LEBENSLAUF_DEFAULT_LANG")
	c.ImageTimeout = os.Getenv("LEBENSLAUF_IMAGE_TIMEOUT")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.ChromePath = os.Getenv("CHROME_PATH")
	if v, err := strconv.Atoi(os.Getenv("LEBENSLAUF_PORT")); err == nil {
		c.Port = v
	}
	if v, err := strconv.ParseInt(os.Getenv("LEBENSLAUF_STORAGE_QUOTA"), 10, 64); err == nil {
		c.StorageQuota = v
	}
	if v, err := strconv.ParseBool(os.Getenv("LEBENSLAUF_VERBOSE")); err == nil {
		c.Verbose = v
	}
	return c
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.StorageQuota < 0 {
		return fmt.Errorf("config error: 'storage_quota' must be non-negative")
	}
	if c.ViewportWidth < 0 {
		return fmt.Errorf("config error: 'viewport_width' must be non-negative")
	}
	if c.DefaultLang != "" {
		if _, ok := i18n.Parse(c.DefaultLang); !ok {
			return fmt.Errorf("config error: unsupported default language %q", c.DefaultLang)
		}
	}
	if c.ImageTimeout != "" {
		d, err := time.ParseDuration(c.ImageTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'image_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'image_timeout' must be positive")
		}
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DefaultLang == "" {
		result.DefaultLang = defaults.DefaultLang
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ImageTimeout == "" {
		result.ImageTimeout = defaults.ImageTimeout
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.StorageQuota == 0 {
		result.StorageQuota = defaults.StorageQuota
	}
	if result.ViewportWidth == 0 {
		result.ViewportWidth = defaults.ViewportWidth
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Lang returns the configured default language.
func (c *Config) Lang() i18n.Lang {
	if l, ok := i18n.Parse(c.DefaultLang); ok {
		return l
	}
	return i18n.Default
}

// ImageWait returns the parsed image timeout, or zero when unset.
func (c *Config) ImageWait() time.Duration {
	d, err := time.ParseDuration(c.ImageTimeout)
	if err != nil {
		return 0
	}
	return d
}
