package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvResultsTable        = "EXAMINER_RESULTS_TABLE"
	EnvResultsCacheSize    = "EXAMINER_RESULTS_CACHE_SIZE"
	EnvResultsMaxListLimit = "EXAMINER_RESULTS_MAX_LIST_LIMIT"
)

// ResultsConfig holds report persistence and retrieval settings.
type ResultsConfig struct {
	Table        string `toml:"table"`
	CacheSize    int    `toml:"cache_size"`
	MaxListLimit int    `toml:"max_list_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ResultsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ResultsConfig) Merge(overlay *ResultsConfig) {
	if overlay.Table != "" {
		c.Table = overlay.Table
	}
	if overlay.CacheSize != 0 {
		c.CacheSize = overlay.CacheSize
	}
	if overlay.MaxListLimit != 0 {
		c.MaxListLimit = overlay.MaxListLimit
	}
}

func (c *ResultsConfig) loadDefaults() {
	if c.Table == "" {
		c.Table = "PDFAnalysisResults"
	}
	if c.CacheSize == 0 {
		c.CacheSize = 256
	}
	if c.MaxListLimit == 0 {
		c.MaxListLimit = 100
	}
}

func (c *ResultsConfig) loadEnv() {
	if v := os.Getenv(EnvResultsTable); v != "" {
		c.Table = v
	}
	if v := os.Getenv(EnvResultsCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v := os.Getenv(EnvResultsMaxListLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxListLimit = n
		}
	}
}

func (c *ResultsConfig) validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("invalid cache_size: %d", c.CacheSize)
	}
	if c.MaxListLimit < 1 {
		return fmt.Errorf("invalid max_list_limit: %d", c.MaxListLimit)
	}
	return nil
}
