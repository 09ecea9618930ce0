// Package postgres implements the storage.Backend interface against a shared
// Postgres database. It wraps the GORM backend via composition — the only
// Postgres-specific concerns are connection setup and validation.
package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/database"
	"github.com/equidrill/drillbook/internal/logging"
	gormstorage "github.com/equidrill/drillbook/internal/storage/gorm"
)

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	DB         *gorm.DB // optional, created from Config when nil
	Config     config.PostgresConfig
	LogManager *logging.SlogManager
}

// Backend wraps the GORM backend for Postgres-specific behavior.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new Postgres storage backend. The connection is not opened
// until Init so a misconfigured backend can still be constructed and swapped.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init opens and validates the connection, then migrates the schema through
// the embedded GORM backend.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.OpenPostgres(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:         b.deps.DB,
		LogManager: b.deps.LogManager,
	})

	return b.Backend.Init()
}

// Close closes the embedded GORM backend when Init succeeded.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	return b.Backend.Close()
}
