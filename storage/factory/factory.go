// Package factory opens the storage backend selected by DB_DRIVER.
package factory

import (
	"context"
	"fmt"

	"taxifleet/config"
	"taxifleet/pkg/logger"
	"taxifleet/storage"
	"taxifleet/storage/memory"
	"taxifleet/storage/postgres"
	"taxifleet/storage/sqlite"
)

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.PostgresURL(), log)
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.SQLitePath, log)
	case config.DriverMemory:
		return memory.New(log), nil
	}
	return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
}
