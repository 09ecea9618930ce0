// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/storage/memory"
	"github.com/equidrill/drillbook/internal/storage/postgres"
	sqlitestorage "github.com/equidrill/drillbook/internal/storage/sqlite"
)

// Compile-time interface checks
var (
	_ Backend    = (*memory.Backend)(nil)
	_ Exportable = (*memory.Backend)(nil)
	_ Backend    = (*sqlitestorage.Backend)(nil)
	_ Backend    = (*postgres.Backend)(nil)
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Dependencies{
			Config:     cfg.Postgres,
			LogManager: logManager,
		}), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path: cfg.SQLite.Path,
		}, logManager)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
