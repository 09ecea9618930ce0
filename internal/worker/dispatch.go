package worker

import (
	"fmt"

	"github.com/equidrill/drillbook/internal/dispatcher"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/storage"
)

// Backuper is an optional interface for backends that can snapshot their
// database file (the SQLite backend).
type Backuper interface {
	Backup(path string) error
}

// RegisterHandlers registers all persistence handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Document lifecycle - sync, callers need the result
	d.Register("drill.save", m.handleSave, dispatcher.Logged())
	d.Register("drill.load", m.handleLoad, dispatcher.Logged())
	d.Register("drill.list", m.handleList)
	d.Register("drill.delete", m.handleDelete, dispatcher.Logged())

	// Autosave snapshots - buffered, high frequency while editing
	d.Register("drill.autosave", m.handleAutosave, dispatcher.Buffered(100), dispatcher.Logged())

	// File production - buffered, slow
	d.Register("drill.export", m.handleExport, dispatcher.Buffered(10), dispatcher.Logged())
	d.Register("drill.backup", m.handleBackup, dispatcher.Buffered(2), dispatcher.Logged())
}

// handleSave persists the working document and returns its summary.
func (m *Manager) handleSave(e dispatcher.Event) (any, error) {
	d := m.deps.Store.Get()
	if err := m.saveDrill(d); err != nil {
		return nil, err
	}
	return d.Summarize(), nil
}

// handleLoad replaces the working document with a stored drill.
// Loading a document is a fresh editing context, so history is cleared and
// the frame cursor rewinds (docstore defaults).
func (m *Manager) handleLoad(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("drill.load requires a drill ID")
	}

	d, err := m.backend.LoadDrill(e.Args[0])
	if err != nil {
		return nil, err
	}

	m.deps.Store.Set(*d, docstore.SetOptions{})
	return d.Summarize(), nil
}

// handleList returns listing rows, serving from the summary cache once warm.
func (m *Manager) handleList(e dispatcher.Event) (any, error) {
	if m.deps.SummaryCache.Warm() {
		return m.deps.SummaryCache.All(), nil
	}

	summaries, err := m.backend.ListDrills()
	if err != nil {
		return nil, err
	}
	m.deps.SummaryCache.Fill(summaries)
	return summaries, nil
}

// handleDelete removes a stored drill.
func (m *Manager) handleDelete(e dispatcher.Event) (any, error) {
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("drill.delete requires a drill ID")
	}

	if err := m.backend.DeleteDrill(e.Args[0]); err != nil {
		return nil, err
	}
	m.deps.SummaryCache.Delete(e.Args[0])
	return "deleted", nil
}

// handleAutosave queues a snapshot of the working document. The writer loop
// collapses stale snapshots, so bursts of edits cost one backend write.
func (m *Manager) handleAutosave(e dispatcher.Event) (any, error) {
	m.autosave.Push(m.deps.Store.Get())
	return nil, nil
}

// handleExport writes the drill to a shareable file. The drill ID defaults
// to the working document's.
func (m *Manager) handleExport(e dispatcher.Event) (any, error) {
	exporter, ok := m.backend.(storage.Exportable)
	if !ok {
		return nil, ErrExportUnsupported
	}

	id := m.deps.Store.Get().ID
	if len(e.Args) > 0 && e.Args[0] != "" {
		id = e.Args[0]
	}

	path, err := exporter.ExportDrill(id)
	if err != nil {
		return nil, err
	}
	return path, nil
}

// handleBackup snapshots the backend's database file to the given path.
func (m *Manager) handleBackup(e dispatcher.Event) (any, error) {
	backuper, ok := m.backend.(Backuper)
	if !ok {
		return nil, fmt.Errorf("backend does not support backup")
	}
	if len(e.Args) < 1 {
		return nil, fmt.Errorf("drill.backup requires a destination path")
	}

	if err := backuper.Backup(e.Args[0]); err != nil {
		return nil, err
	}
	return e.Args[0], nil
}
