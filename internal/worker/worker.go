// Package worker owns the persistence side of the editor: dispatcher
// handlers for save/load/list/delete/export commands, and the autosave
// pipeline that snapshots the working document onto a queue and drains it to
// the storage backend in the background.
package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/equidrill/drillbook/internal/cache"
	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/queue"
	"github.com/equidrill/drillbook/internal/storage"
)

// ErrExportUnsupported is returned when the configured backend cannot
// produce export files.
var ErrExportUnsupported = fmt.Errorf("backend does not support export")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Store        *docstore.Store
	SummaryCache *cache.SummaryCache
	LogManager   *logging.SlogManager
}

// Manager manages persistence handlers and the autosave goroutines
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	autosave *queue.Queue[drill.Drill]
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu               sync.Mutex
	lastSaveDuration time.Duration
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:     deps,
		backend:  backend,
		autosave: queue.New[drill.Drill](),
	}
}

// StartAutosave launches the snapshot ticker and the writer goroutines.
// No-op when autosave is disabled.
func (m *Manager) StartAutosave(cfg config.AutosaveConfig) {
	if !cfg.Enabled || cfg.Interval <= 0 {
		return
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	m.stopChan = make(chan struct{})

	m.wg.Add(1)
	go m.snapshotLoop(cfg.Interval)

	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.writerLoop()
	}

	m.deps.LogManager.Logger().Info("autosave started",
		"interval", cfg.Interval, "workers", workers)
}

// Stop shuts down the autosave goroutines and flushes anything still queued.
func (m *Manager) Stop() {
	if m.stopChan == nil {
		return
	}
	close(m.stopChan)
	m.wg.Wait()
	m.stopChan = nil

	m.drainOnce()
}

// snapshotLoop pushes a deep copy of the working document onto the autosave
// queue every interval.
func (m *Manager) snapshotLoop(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.autosave.Push(m.deps.Store.Get())
		}
	}
}

// writerLoop drains the autosave queue to the backend. Only the newest
// snapshot per drill ID is written; older ones queued behind it are stale.
func (m *Manager) writerLoop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.stopChan:
			return
		case <-time.After(time.Second):
			m.drainOnce()
		}
	}
}

func (m *Manager) drainOnce() {
	snapshots := queue.DrainLatest(m.autosave, func(d drill.Drill) string { return d.ID })
	for _, d := range snapshots {
		m.saveDrill(d)
	}
}

// saveDrill writes one drill to the backend and refreshes the summary cache.
func (m *Manager) saveDrill(d drill.Drill) error {
	start := time.Now()

	if err := m.backend.SaveDrill(&d); err != nil {
		m.deps.LogManager.Logger().Error("save failed", "drill", d.ID, "error", err)
		return err
	}

	m.mu.Lock()
	m.lastSaveDuration = time.Since(start)
	m.mu.Unlock()

	m.deps.SummaryCache.Set(d.Summarize())
	return nil
}

// GetLastSaveDuration returns the duration of the last backend save, for the
// performance monitor. Returns 0 before the first save.
func (m *Manager) GetLastSaveDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSaveDuration
}

// QueuedSnapshots returns the current autosave queue depth.
func (m *Manager) QueuedSnapshots() int {
	return m.autosave.Len()
}
