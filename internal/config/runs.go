package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvRunsTable        = "EXAMINER_RUNS_TABLE"
	EnvRunsMaxListLimit = "EXAMINER_RUNS_MAX_LIST_LIMIT"
)

// RunsConfig holds run journaling settings.
type RunsConfig struct {
	Table        string `toml:"table"`
	MaxListLimit int    `toml:"max_list_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RunsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RunsConfig) Merge(overlay *RunsConfig) {
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.MaxListLimit != 0 {
		c.MaxListLimit = overlay.MaxListLimit
	}
}

func (c *RunsConfig) loadDefaults() {
	if c.Table == "" {
		c.Table = "AnalysisRuns"
	}
	if c.MaxListLimit == 0 {
		c.MaxListLimit = 50
	}
}

func (c *RunsConfig) loadEnv() {
	if v := os.Getenv(EnvRunsTable); v != "" {
		c.Table = v
	}
	if v := os.Getenv(EnvRunsMaxListLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxListLimit = n
		}
	}
}

func (c *RunsConfig) validate() error {
	if c.MaxListLimit < 1 {
		return fmt.Errorf("invalid max_list_limit: %d", c.MaxListLimit)
	}
	return nil
}
