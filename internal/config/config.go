// Package config loads quadmap settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quadmap/internal/dialect"
)

// Config holds settings shared by every command.
type Config struct {
	// Database is the path of the SQLite quad store.
	Database string `yaml:"database"`

	// Dialect is the query language the store declares: sparql or serql.
	Dialect string `yaml:"dialect"`

	// NamedGraphs controls whether the store advertises named-graph support.
	NamedGraphs *bool `yaml:"named_graphs,omitempty"`

	// Mappings is the directory of CUE entity mappings.
	Mappings string `yaml:"mappings"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Database: "quadmap.db",
		Dialect:  string(dialect.SPARQL),
		Mappings: "mappings",
		LogLevel: "warn",
	}
}

// Load reads a YAML config file. Keys absent from the file keep their
// defaults. Unknown keys are rejected.
//
// Relative database and mappings paths are resolved against the directory
// containing the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	cfg.Database = resolve(base, cfg.Database)
	cfg.Mappings = resolve(base, cfg.Mappings)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || p == ":memory:" {
		return p
	}
	return filepath.Join(base, p)
}

// Validate checks that required fields are present and valid.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if !c.QueryDialect().Known() {
		return fmt.Errorf("dialect %q: must be one of sparql, serql", c.Dialect)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// QueryDialect returns the configured dialect.
func (c *Config) QueryDialect() dialect.Dialect {
	return dialect.Parse(c.Dialect)
}

// SupportsNamedGraphs reports whether named graphs are enabled.
// Enabled unless the file says otherwise.
func (c *Config) SupportsNamedGraphs() bool {
	return c.NamedGraphs == nil || *c.NamedGraphs
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel converts a level name to a slog.Level. The empty string is
// warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log_level %q: must be one of debug, info, warn, error", s)
	}
}
