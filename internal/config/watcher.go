package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/examiner/pkg/formatting"
)

const (
	EnvWatcherMode            = "EXAMINER_WATCHER_MODE"
	EnvWatcherPollInterval    = "EXAMINER_WATCHER_POLL_INTERVAL"
	EnvWatcherPrefix          = "EXAMINER_WATCHER_PREFIX"
	EnvWatcherMaxConcurrent   = "EXAMINER_WATCHER_MAX_CONCURRENT"
	EnvWatcherMaxDocumentSize = "EXAMINER_WATCHER_MAX_DOCUMENT_SIZE"
)

// WatcherConfig holds document discovery settings. Mode selects how new
// documents are found: "poll" scans the container on an interval, "webhook"
// waits for blob created events, "off" disables discovery.
type WatcherConfig struct {
	Mode            string `toml:"mode"`
	PollInterval    string `toml:"poll_interval"`
	Prefix          string `toml:"prefix"`
	MaxConcurrent   int    `toml:"max_concurrent"`
	MaxDocumentSize string `toml:"max_document_size"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *WatcherConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// MaxDocumentSizeBytes returns MaxDocumentSize parsed into bytes.
func (c *WatcherConfig) MaxDocumentSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxDocumentSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WatcherConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WatcherConfig) Merge(overlay *WatcherConfig) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.MaxConcurrent != 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
	if overlay.MaxDocumentSize != "" {
		c.MaxDocumentSize = overlay.MaxDocumentSize
	}
}

func (c *WatcherConfig) loadDefaults() {
	if c.Mode == "" {
		c.Mode = "poll"
	}
	if c.PollInterval == "" {
		c.PollInterval = "30s"
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxDocumentSize == "" {
		c.MaxDocumentSize = "50MB"
	}
}

func (c *WatcherConfig) loadEnv() {
	if v := os.Getenv(EnvWatcherMode); v != "" {
		c.Mode = v
	}
	if v := os.Getenv(EnvWatcherPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvWatcherPrefix); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv(EnvWatcherMaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv(EnvWatcherMaxDocumentSize); v != "" {
		c.MaxDocumentSize = v
	}
}

func (c *WatcherConfig) validate() error {
	switch c.Mode {
	case "poll", "webhook", "off":
	default:
		return fmt.Errorf("invalid mode: %q", c.Mode)
	}

	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if c.Mode == "poll" && d <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}

	if c.MaxConcurrent < 1 {
		return fmt.Errorf("invalid max_concurrent: %d", c.MaxConcurrent)
	}
	if _, err := formatting.ParseBytes(c.MaxDocumentSize); err != nil {
		return fmt.Errorf("invalid max_document_size: %w", err)
	}
	return nil
}
