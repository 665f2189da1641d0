// Package config provides configuration loading and management for the data service.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
)

const (
	// DefaultAddress is the listen address used when none is configured.
	DefaultAddress = ":8080"

	// DefaultCacheTTL is how long fetched responses stay valid.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultFetchTimeout bounds a single upstream request.
	DefaultFetchTimeout = 2 * time.Second

	// DefaultSlideType is the slide type batch runs operate on.
	DefaultSlideType = "itk-aarhus-data"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Address is the listen address for the HTTP server
	Address string `yaml:"address,omitempty"`

	// SlideType is the slide type the batch processor monitors
	SlideType string `yaml:"slideType,omitempty"`

	// CacheTTLSeconds is how long fetched upstream responses stay valid
	CacheTTLSeconds int `yaml:"cacheTTLSeconds,omitempty"`

	// FetchTimeoutSeconds bounds a single upstream request
	FetchTimeoutSeconds int `yaml:"fetchTimeoutSeconds,omitempty"`

	// TranslationsPath optionally points to a YAML catalog overriding the
	// built-in Danish labels
	TranslationsPath string `yaml:"translationsPath,omitempty"`

	// Endpoints overrides the built-in upstream endpoint URLs
	Endpoints sources.Endpoints `yaml:"endpoints,omitempty"`

	// Cron configures the optional in-process batch scheduler
	Cron CronConfig `yaml:"cron,omitempty"`

	// Database holds the slide store connection settings. When omitted the
	// service runs against an in-memory store.
	Database *DatabaseConfig `yaml:"database,omitempty"`
}

// CronConfig defines the optional in-process scheduler settings. External
// triggering through the cron endpoint works regardless.
type CronConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Interval string `yaml:"interval,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing
	// whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from AARHUS_DATA_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv("AARHUS_DATA_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or AARHUS_DATA_DATABASE_PASSWORD environment variable",
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// LoadConfig loads and parses configuration from a YAML file. When no path
// option is given, the built-in defaults are returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := &Config{}

	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.SlideType == "" {
		c.SlideType = DefaultSlideType
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = int(DefaultCacheTTL.Seconds())
	}
	if c.FetchTimeoutSeconds == 0 {
		c.FetchTimeoutSeconds = int(DefaultFetchTimeout.Seconds())
	}
}

// CacheTTL returns the configured response cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the configured upstream request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CronInterval parses the scheduler interval. Only meaningful when the cron
// scheduler is enabled.
func (c *Config) CronInterval() (time.Duration, error) {
	if c.Cron.Interval == "" {
		return DefaultCacheTTL, nil
	}
	interval, err := time.ParseDuration(c.Cron.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid cron interval: %w", err)
	}
	return interval, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("cacheTTLSeconds must not be negative")
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetchTimeoutSeconds must be positive")
	}

	if c.Cron.Enabled {
		if _, err := c.CronInterval(); err != nil {
			return err
		}
	}

	if c.Database != nil {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database port is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	return nil
}
