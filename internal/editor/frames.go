package editor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/equidrill/drillbook/internal/drill"
)

// AddFrame inserts a new frame after the cursor, carrying the current
// frame's horses forward so the next formation starts where the last one
// ended. The cursor moves to the new frame.
func (e *Editor) AddFrame() {
	before := e.store.Get()
	after := before.Clone()
	idx := e.store.FrameIndex()

	f := drill.Frame{
		ID:       uuid.NewString(),
		Duration: drill.DefaultFrameDuration,
	}
	if cur := after.Frame(idx); cur != nil {
		f.Horses = append([]drill.Horse(nil), cur.Horses...)
	}
	after.InsertFrame(idx+1, f)

	e.commitDocument("Add frame", before, after)
	e.store.SetFrameIndex(idx + 1)
}

// DuplicateFrame copies the frame at the cursor and moves the cursor onto
// the copy.
func (e *Editor) DuplicateFrame() {
	before := e.store.Get()
	idx := e.store.FrameIndex()
	if before.Frame(idx) == nil {
		return
	}
	after := before.Clone()
	after.DuplicateFrame(idx)
	e.commitDocument("Duplicate frame", before, after)
	e.store.SetFrameIndex(idx + 1)
}

// RemoveFrame deletes the frame at the cursor. The last remaining frame
// cannot be removed; a drill always has at least one.
func (e *Editor) RemoveFrame() {
	before := e.store.Get()
	if len(before.Frames) <= 1 {
		return
	}
	idx := e.store.FrameIndex()
	if before.Frame(idx) == nil {
		return
	}
	after := before.Clone()
	after.RemoveFrame(idx)
	e.commitDocument("Remove frame", before, after)
}

// MoveFrame reorders the frame at from to position to, following the frame
// with the cursor.
func (e *Editor) MoveFrame(from, to int) {
	before := e.store.Get()
	if from == to || before.Frame(from) == nil || before.Frame(to) == nil {
		return
	}
	after := before.Clone()
	after.MoveFrame(from, to)
	e.commitDocument(fmt.Sprintf("Move frame %d to %d", from, to), before, after)
	e.store.SetFrameIndex(to)
}

// SetFrameDuration sets the cursor frame's duration in seconds. Negative
// values clamp to zero; downstream timestamps re-derive.
func (e *Editor) SetFrameDuration(duration float64) {
	before := e.store.Get()
	idx := e.store.FrameIndex()
	cur := before.Frame(idx)
	if cur == nil || cur.Duration == duration {
		return
	}
	after := before.Clone()
	after.SetFrameDuration(idx, duration)
	e.commitDocument("Set frame duration", before, after)
}

// InferFrameDuration sets the cursor frame's duration from the gait model:
// the slowest horse's travel time to its pose in the next frame. No-op on
// the last frame or when no horses match across the pair.
func (e *Editor) InferFrameDuration() {
	before := e.store.Get()
	idx := e.store.FrameIndex()
	cur := before.Frame(idx)
	next := before.Frame(idx + 1)
	if cur == nil || next == nil {
		return
	}
	dur := drill.InferredDuration(*cur, *next)
	if dur <= 0 || dur == cur.Duration {
		return
	}
	after := before.Clone()
	after.SetFrameDuration(idx, dur)
	e.commitDocument("Infer frame duration", before, after)
}
