// Package repomanager vends the repositories for the configured storage
// driver and prepares the backing store (schema migrations or indexes).
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/principals"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/purchases"
)

type RepositoryManager interface {
	// Migrate brings the store to the schema the repositories expect.
	Migrate(ctx context.Context) error
	Principals() principals.Repository
	Courses() courses.Repository
	Purchases() purchases.Repository
	Close(ctx context.Context) error
}

// New connects to the store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
