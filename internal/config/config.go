package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/examiner/pkg/storage"
	"github.com/JaimeStill/examiner/pkg/tables"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvExaminerEnv             = "EXAMINER_ENV"
	EnvExaminerShutdownTimeout = "EXAMINER_SHUTDOWN_TIMEOUT"
	EnvExaminerVersion         = "EXAMINER_VERSION"
)

var storageEnv = &storage.Env{
	ContainerName:    "EXAMINER_STORAGE_CONTAINER_NAME",
	ConnectionString: "EXAMINER_STORAGE_CONNECTION_STRING",
	ServiceURL:       "EXAMINER_STORAGE_SERVICE_URL",
	MaxListSize:      "EXAMINER_STORAGE_MAX_LIST_SIZE",
}

var tablesEnv = &tables.Env{
	ConnectionString: "EXAMINER_TABLES_CONNECTION_STRING",
	ServiceURL:       "EXAMINER_TABLES_SERVICE_URL",
}

// Config is the root configuration for the Examiner service.
type Config struct {
	Server          ServerConfig   `toml:"server"`
	Storage         storage.Config `toml:"storage"`
	Tables          tables.Config  `toml:"tables"`
	Results         ResultsConfig  `toml:"results"`
	Runs            RunsConfig     `toml:"runs"`
	Watcher         WatcherConfig  `toml:"watcher"`
	API             APIConfig      `toml:"api"`
	ShutdownTimeout string         `toml:"shutdown_timeout"`
	Version         string         `toml:"version"`
}

// Env returns the EXAMINER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvExaminerEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Storage.Merge(&overlay.Storage)
	c.Tables.Merge(&overlay.Tables)
	c.Results.Merge(&overlay.Results)
	c.Runs.Merge(&overlay.Runs)
	c.Watcher.Merge(&overlay.Watcher)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Tables.Finalize(tablesEnv); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	if err := c.Results.Finalize(); err != nil {
		return fmt.Errorf("results: %w", err)
	}
	if err := c.Runs.Finalize(); err != nil {
		return fmt.Errorf("runs: %w", err)
	}
	if err := c.Watcher.Finalize(); err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvExaminerShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvExaminerVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvExaminerEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
