// internal/storage/storage.go
package storage

import "github.com/equidrill/drillbook/internal/drill"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Document persistence. SaveDrill upserts by drill ID; LoadDrill returns
	// drill.ErrNotFound for unknown IDs.
	SaveDrill(d *drill.Drill) error
	LoadDrill(id string) (*drill.Drill, error)
	ListDrills() ([]drill.Summary, error)
	DeleteDrill(id string) error
}

// Exportable is an optional interface for storage backends that produce
// files suitable for sharing outside the editor.
type Exportable interface {
	ExportDrill(id string) (string, error)
	GetExportedFilePath() string
}
