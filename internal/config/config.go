// Package config provides configuration loading for projboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dori/projboard/internal/db"
	"gopkg.in/yaml.v3"
)

// Config represents the complete projboard configuration
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Log        LogConfig      `yaml:"log"`
	Notify     NotifyConfig   `yaml:"notify"`
	DataDir    string         `yaml:"data_dir"`
	Categories []string       `yaml:"categories"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// Addr is the listen address (default: 0.0.0.0:3000)
	Addr string `yaml:"addr"`
	// Password enables basic auth when set; a bcrypt hash or plain text
	Password        string        `yaml:"password"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go)
	Driver string `yaml:"driver"`
	// Path is the database file; defaults to <data_dir>/projboard.db
	Path string `yaml:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// NotifyConfig configures desktop notifications
type NotifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "0.0.0.0:3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: db.DriverCGO,
		},
		Log: LogConfig{
			Level: "info",
		},
		DataDir:    db.DefaultDataDir(),
		Categories: []string{"Personal", "Professional"},
	}
}

// Load reads the config file at path (if any) over the defaults, applies
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides fields from PROJBOARD_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PROJBOARD_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("PROJBOARD_PASSWORD"); ok {
		c.Server.Password = v
	}
	if v, ok := lookup("PROJBOARD_DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := lookup("PROJBOARD_DB_DRIVER"); ok {
		c.Database.Driver = v
	}
	if v, ok := lookup("PROJBOARD_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("PROJBOARD_DATA_DIR"); ok {
		c.DataDir = v
	}
}

// DBPath returns the configured database path, falling back to the data dir
func (c *Config) DBPath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.DataDir, "projboard.db")
}

// HasCategory reports whether name is a configured category
func (c *Config) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}

	switch c.Database.Driver {
	case db.DriverCGO, db.DriverPure:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q",
			db.DriverCGO, db.DriverPure, c.Database.Driver))
	}

	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(c.Categories) == 0 {
		errs = append(errs, errors.New("at least one category is required"))
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat) == "" {
			errs = append(errs, errors.New("category names must not be empty"))
			continue
		}
		if seen[cat] {
			errs = append(errs, fmt.Errorf("duplicate category %q", cat))
		}
		seen[cat] = true
	}

	return errors.Join(errs...)
}
