// Package history implements a linear undo/redo stack. Entries carry
// closures that replace the whole document with a deep-copied snapshot, so
// undoing never needs to invert an operation.
package history

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity bounds how many entries the stack retains before dropping
// from the front.
const DefaultCapacity = 100

// Entry is one undoable operation. Undo and Redo each restore a full
// document snapshot captured at commit time.
type Entry struct {
	ID          string
	Timestamp   time.Time
	Description string
	Undo        func()
	Redo        func()
}

// NewEntry builds an entry with a fresh ID and the current time.
func NewEntry(description string, undo, redo func()) Entry {
	return Entry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Description: description,
		Undo:        undo,
		Redo:        redo,
	}
}

// Stack is a flat entry list with a cursor. cursor == -1 means nothing is
// applied; cursor always points at the most recently applied entry.
// Not safe for concurrent use; the editor runs single-flow.
type Stack struct {
	entries  []Entry
	cursor   int
	capacity int
}

// NewStack creates a stack holding at most capacity entries. Non-positive
// capacity falls back to DefaultCapacity.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{cursor: -1, capacity: capacity}
}

// Push records a new entry. Any redo branch beyond the cursor is discarded;
// when capacity is exceeded the oldest entries fall off the front.
func (s *Stack) Push(e Entry) {
	s.entries = append(s.entries[:s.cursor+1], e)
	s.cursor = len(s.entries) - 1
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
		s.cursor -= over
	}
}

// Undo reverts the entry at the cursor and steps back. No-op when there is
// nothing to undo.
func (s *Stack) Undo() {
	if !s.CanUndo() {
		return
	}
	s.entries[s.cursor].Undo()
	s.cursor--
}

// Redo re-applies the entry after the cursor. No-op when there is nothing
// to redo.
func (s *Stack) Redo() {
	if !s.CanRedo() {
		return
	}
	s.cursor++
	s.entries[s.cursor].Redo()
}

// CanUndo reports whether an applied entry exists.
func (s *Stack) CanUndo() bool {
	return s.cursor >= 0
}

// CanRedo reports whether a discarded-direction entry exists past the
// cursor.
func (s *Stack) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Len returns the number of retained entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Current returns the entry at the cursor, or nil when nothing is applied.
func (s *Stack) Current() *Entry {
	if s.cursor < 0 {
		return nil
	}
	return &s.entries[s.cursor]
}

// Clear drops every entry. Called when a document is loaded or created;
// undo never crosses documents.
func (s *Stack) Clear() {
	s.entries = nil
	s.cursor = -1
}
