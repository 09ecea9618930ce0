// Package memory implements the storage.Backend interface with an in-process
// drill map and JSON file export. It is the default backend: the editor keeps
// working with no database configured, and drills leave the process as
// (optionally gzipped) JSON files.
package memory

import (
	"sort"
	"sync"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/drill"
)

// Backend stores drills in memory, keyed by drill ID.
type Backend struct {
	cfg config.MemoryConfig

	mu     sync.RWMutex
	drills map[string]drill.Drill

	lastExportPath string
}

// New creates a new in-memory storage backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:    cfg,
		drills: make(map[string]drill.Drill),
	}
}

// Init is a no-op — the map is ready at construction.
func (b *Backend) Init() error {
	return nil
}

// Close is a no-op — nothing to release.
func (b *Backend) Close() error {
	return nil
}

// SaveDrill stores a deep copy of the drill so later editor mutations cannot
// reach the saved state.
func (b *Backend) SaveDrill(d *drill.Drill) error {
	if d == nil || d.ID == "" {
		return drill.ErrNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.drills[d.ID] = d.Clone()
	return nil
}

// LoadDrill returns a deep copy of the stored drill.
func (b *Backend) LoadDrill(id string) (*drill.Drill, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	d, ok := b.drills[id]
	if !ok {
		return nil, drill.ErrNotFound
	}
	out := d.Clone()
	return &out, nil
}

// ListDrills returns summaries sorted by most recently updated.
func (b *Backend) ListDrills() ([]drill.Summary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	summaries := make([]drill.Summary, 0, len(b.drills))
	for _, d := range b.drills {
		summaries = append(summaries, d.Summarize())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// DeleteDrill removes the drill. Unknown IDs are a no-op.
func (b *Backend) DeleteDrill(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drills, id)
	return nil
}

// GetExportedFilePath returns the path of the most recent export, or empty
// when nothing has been exported yet.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
