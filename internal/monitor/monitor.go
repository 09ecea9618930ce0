// Package monitor runs a background status loop: once a second it snapshots
// the editor's working state and the autosave pipeline, writes the snapshot
// to status.txt for quick inspection, and ships it to InfluxDB.
package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/influx"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/worker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager    *logging.SlogManager
	WorkerManager *worker.Manager
	Influx        *influx.Manager
	Store         *docstore.Store
	StatusDir     string
}

// Status is the once-a-second snapshot of editor and autosave state.
type Status struct {
	Time            time.Time `json:"time"`
	DrillID         string    `json:"drillId"`
	DrillName       string    `json:"drillName"`
	Frames          int       `json:"frames"`
	Horses          int       `json:"horses"`
	HistoryDepth    int       `json:"historyDepth"`
	QueuedSnapshots int       `json:"queuedSnapshots"`
	LastSaveMs      float64   `json:"lastSaveMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot collects the current status.
func (s *Service) Snapshot() Status {
	d := s.deps.Store.Get()

	horses := 0
	for i := range d.Frames {
		horses += len(d.Frames[i].Horses)
	}

	st := Status{
		Time:         time.Now(),
		DrillID:      d.ID,
		DrillName:    d.Name,
		Frames:       len(d.Frames),
		Horses:       horses,
		HistoryDepth: s.deps.Store.History().Len(),
	}
	if s.deps.WorkerManager != nil {
		st.QueuedSnapshots = s.deps.WorkerManager.QueuedSnapshots()
		st.LastSaveMs = float64(s.deps.WorkerManager.GetLastSaveDuration().Microseconds()) / 1000
	}
	return st
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(1000 * time.Millisecond)

				st := s.Snapshot()

				if statusFile != nil {
					out, err := json.MarshalIndent(st, "", "  ")
					if err == nil {
						statusFile.Truncate(0)
						statusFile.Seek(0, 0)
						statusFile.Write(append(out, '\n'))
					}
				}

				if s.deps.Influx != nil {
					p := influx.EditorActivityPoint(st.DrillID, st.Frames, st.Horses, st.HistoryDepth)
					if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketEditor, p); err != nil {
						logger.Error("Error writing editor activity point", "error", err)
					}

					if s.deps.WorkerManager != nil {
						p = influx.AutosavePoint(st.DrillID, st.QueuedSnapshots, s.deps.WorkerManager.GetLastSaveDuration())
						if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketAutosave, p); err != nil {
							logger.Error("Error writing autosave point", "error", err)
						}
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
