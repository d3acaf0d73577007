// Package tables provides table storage operations with an Azure Table Storage implementation.
package tables

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// Client is the subset of table operations the domain systems use.
// *aztables.Client satisfies it; tests substitute fakes.
type Client interface {
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
	GetEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
}

var _ Client = (*aztables.Client)(nil)

// System manages table storage access and lifecycle coordination.
type System interface {
	// Start registers a startup hook that verifies table service connectivity.
	Start(lc *lifecycle.Coordinator) error
	// Table returns a client scoped to the named table.
	Table(name string) Client
	// Ensure creates the named table if it does not already exist.
	Ensure(ctx context.Context, name string) error
}

type azure struct {
	service *aztables.ServiceClient
	logger  *slog.Logger
}

// New creates a table storage system from the given configuration. Connection
// string auth takes precedence; otherwise the service URL is used with the
// default Azure credential chain.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	service, err := newService(cfg)
	if err != nil {
		return nil, err
	}

	return &azure{
		service: service,
		logger:  logger.With("system", "tables"),
	}, nil
}

func newService(cfg *Config) (*aztables.ServiceClient, error) {
	if cfg.ConnectionString != "" {
		service, err := aztables.NewServiceClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create table service client: %w", err)
		}
		return service, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create table service credential: %w", err)
	}

	service, err := aztables.NewServiceClient(cfg.ServiceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create table service client: %w", err)
	}

	return service, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting tables system")

	lc.OnStartup(func() {
		top := int32(1)
		pager := a.service.NewListTablesPager(&aztables.ListTablesOptions{Top: &top})

		if _, err := pager.NextPage(lc.Context()); err != nil {
			a.logger.Error("table service connectivity check failed", "error", err)
			return
		}

		a.logger.Info("table service ready")
	})

	return nil
}

func (a *azure) Table(name string) Client {
	return a.service.NewClient(name)
}

func (a *azure) Ensure(ctx context.Context, name string) error {
	_, err := a.service.CreateTable(ctx, name, nil)
	if err != nil {
		if IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("create table %s: %w", name, err)
	}

	return nil
}
