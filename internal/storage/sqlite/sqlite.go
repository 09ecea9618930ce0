// Package sqlitestorage implements the storage.Backend interface using an
// embedded SQLite database file. It wraps the GORM backend via composition —
// the only SQLite-specific concerns are (a) opening the file DB with the
// right pragmas and (b) point-in-time backups via VACUUM INTO.
package sqlitestorage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/equidrill/drillbook/internal/database"
	"github.com/equidrill/drillbook/internal/logging"
	gormstorage "github.com/equidrill/drillbook/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string // DB file path; empty means in-memory (tests)
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db  *gorm.DB
	cfg Config
	log *logging.SlogManager
}

// New creates a new SQLite storage backend.
func New(cfg Config, logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	gormBackend := gormstorage.New(gormstorage.Dependencies{
		DB:         db,
		LogManager: logManager,
	})

	return &Backend{
		Backend: gormBackend,
		db:      db,
		cfg:     cfg,
		log:     logManager,
	}, nil
}

// Backup writes a point-in-time snapshot of the database to path via
// VACUUM INTO. The live DB stays open and writable throughout.
func (b *Backend) Backup(path string) error {
	if path == b.cfg.Path {
		return fmt.Errorf("backup path must differ from DB path")
	}
	return database.DumpMemoryDBToDisk(b.db, path)
}
