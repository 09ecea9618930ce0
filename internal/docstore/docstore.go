// Package docstore owns the single mutable drill document the editor
// operates on, plus the current-frame cursor and the undo history bound to
// that document's lifetime.
package docstore

import (
	"sync"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/history"
)

// SetOptions controls how Set treats the surrounding editor state.
type SetOptions struct {
	// SkipHistoryClear keeps the undo history. Set it for edits within the
	// current document; leave it false when loading or creating a document,
	// where undo must not cross the document boundary.
	SkipHistoryClear bool
	// PreserveFrameIndex keeps the current-frame cursor (clamped to the new
	// frame count) instead of resetting it to 0.
	PreserveFrameIndex bool
}

// Store holds the current drill document
type Store struct {
	mu         sync.RWMutex
	drill      drill.Drill
	frameIndex int
	hist       *history.Stack
}

// NewStore creates a store seeded with an empty named drill.
func NewStore() *Store {
	return &Store{
		drill: drill.New("Untitled Drill"),
		hist:  history.NewStack(history.DefaultCapacity),
	}
}

// Get returns a deep copy of the current document. Callers may mutate the
// copy freely; the store's state is only changed through Set.
func (s *Store) Get() drill.Drill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drill.Clone()
}

// Set replaces the current document with a deep copy of d.
func (s *Store) Set(d drill.Drill, opts SetOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drill = d.Clone()
	s.drill.RecomputeTimestamps()

	if opts.PreserveFrameIndex {
		if max := len(s.drill.Frames) - 1; s.frameIndex > max {
			s.frameIndex = max
		}
		if s.frameIndex < 0 {
			s.frameIndex = 0
		}
	} else {
		s.frameIndex = 0
	}

	if !opts.SkipHistoryClear {
		s.hist.Clear()
	}
}

// FrameIndex returns the current-frame cursor.
func (s *Store) FrameIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameIndex
}

// SetFrameIndex moves the current-frame cursor, clamped to the valid range.
func (s *Store) SetFrameIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max := len(s.drill.Frames) - 1; i > max {
		i = max
	}
	if i < 0 {
		i = 0
	}
	s.frameIndex = i
}

// CurrentFrame returns a deep copy of the frame at the cursor, or nil when
// the document has no frames.
func (s *Store) CurrentFrame() *drill.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frameIndex < 0 || s.frameIndex >= len(s.drill.Frames) {
		return nil
	}
	f := s.drill.Frames[s.frameIndex].Clone()
	return &f
}

// History returns the undo stack bound to the current document.
func (s *Store) History() *history.Stack {
	return s.hist
}
