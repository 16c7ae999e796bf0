// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// engine, crawler, logging, and metrics subsystems.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Crawler CrawlerConfig `yaml:"crawler"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig controls where snapshots live, how many documents are
// extracted in parallel, and how wide snippets are.
type EngineConfig struct {
	DataDir       string `yaml:"dataDir"`
	IndexFile     string `yaml:"indexFile"`
	Workers       int    `yaml:"workers"`
	SnippetWindow int    `yaml:"snippetWindow"`
}

// CrawlerConfig controls directory traversal.
type CrawlerConfig struct {
	Exclude        []string `yaml:"exclude"`
	FollowSymlinks bool     `yaml:"followSymlinks"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// IndexPath returns the full path of the persisted index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Engine.DataDir, c.Engine.IndexFile)
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with defaults suitable for local use.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DataDir:       "data",
			IndexFile:     "index.db",
			Workers:       4,
			SnippetWindow: 80,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.IndexFile == "" {
		return fmt.Errorf("engine.indexFile must not be empty")
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1, got %d", c.Engine.Workers)
	}
	if c.Engine.SnippetWindow < 1 {
		return fmt.Errorf("engine.snippetWindow must be at least 1, got %d", c.Engine.SnippetWindow)
	}
	for _, pattern := range c.Crawler.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("crawler.exclude: invalid pattern %q", pattern)
		}
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port out of range: %d", c.Metrics.Port)
	}
	return nil
}

// applyEnvOverrides reads PDFS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDFS_DATA_DIR"); v != "" {
		cfg.Engine.DataDir = v
	}
	if v := os.Getenv("PDFS_INDEX_FILE"); v != "" {
		cfg.Engine.IndexFile = v
	}
	if v := os.Getenv("PDFS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.Workers = n
		}
	}
	if v := os.Getenv("PDFS_SNIPPET_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.SnippetWindow = n
		}
	}
	if v := os.Getenv("PDFS_CRAWLER_EXCLUDE"); v != "" {
		cfg.Crawler.Exclude = strings.Split(v, ",")
	}
	if v := os.Getenv("PDFS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PDFS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PDFS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("PDFS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
