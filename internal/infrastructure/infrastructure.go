// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, blob storage, table storage) that domain
// systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/examiner/internal/config"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/storage"
	"github.com/JaimeStill/examiner/pkg/tables"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, document storage, and table storage.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Tables    tables.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	tbl, err := tables.New(&cfg.Tables, logger)
	if err != nil {
		return nil, fmt.Errorf("tables init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
		Tables:    tbl,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Storage and tables hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Tables.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("tables start failed: %w", err)
	}
	return nil
}
