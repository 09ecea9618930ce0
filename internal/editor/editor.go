// Package editor is the interaction surface: it owns the selection, the
// zoom/pan view state, and the drag-session lifecycle, and routes pointer
// and touch input into the document store, the transformation engine, and
// the undo history.
package editor

import (
	"fmt"
	"sort"

	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/history"
	"github.com/equidrill/drillbook/internal/transform"
)

// Zoom bounds for the pinch gesture.
const (
	MinZoom = 0.5
	MaxZoom = 3.0
)

// horseHitRadius is the canvas-pixel pick radius around a horse.
const horseHitRadius = 15.0

// clickSlop is the canvas-pixel movement below which a press-release pair
// counts as a click, not a drag.
const clickSlop = 3.0

// Editor glues the document store, the transformation engine, and the view
// state together. Not safe for concurrent use; all input arrives on one
// event flow.
type Editor struct {
	store  *docstore.Store
	engine *transform.Engine

	arena        geometry.Arena
	canvasWidth  float64
	canvasHeight float64

	zoom float64
	pan  geometry.Point

	selection map[string]struct{}

	drag dragState
}

// NewEditor creates an editor over the store with the given canvas size.
func NewEditor(store *docstore.Store, canvasWidth, canvasHeight float64) *Editor {
	e := &Editor{
		store:        store,
		arena:        geometry.DefaultArena(),
		canvasWidth:  canvasWidth,
		canvasHeight: canvasHeight,
		zoom:         1,
		selection:    make(map[string]struct{}),
	}
	e.engine = transform.NewEngine(transform.Config{
		Selected: e.selectedHorses,
		Apply:    e.applyProvisional,
		Commit:   e.commitHorses,
	})
	return e
}

// Engine exposes the transformation engine, mainly for handle geometry.
func (e *Editor) Engine() *transform.Engine {
	return e.engine
}

// SetCanvasSize updates the canvas dimensions used for projection.
func (e *Editor) SetCanvasSize(w, h float64) {
	e.canvasWidth = w
	e.canvasHeight = h
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 {
	return e.zoom
}

// Pan returns the current pan offset in screen pixels.
func (e *Editor) Pan() geometry.Point {
	return e.pan
}

// screenToCanvas undoes zoom and pan: canvas = (screen - pan) / zoom.
func (e *Editor) screenToCanvas(p geometry.Point) geometry.Point {
	return p.Sub(e.pan).Scale(1 / e.zoom)
}

// screenToArena maps a raw screen point to arena meters.
func (e *Editor) screenToArena(p geometry.Point) geometry.Point {
	c := e.screenToCanvas(p)
	return e.arena.CanvasToPoint(c.X, c.Y, e.canvasWidth, e.canvasHeight)
}

// Selection returns the selected horse IDs in sorted order.
func (e *Editor) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Select replaces the selection with the given horse IDs.
func (e *Editor) Select(ids ...string) {
	e.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
	e.engine.NotifySelection(e.selectedHorses())
}

// ToggleSelect adds or removes one horse from the selection.
func (e *Editor) ToggleSelect(id string) {
	if _, ok := e.selection[id]; ok {
		delete(e.selection, id)
	} else {
		e.selection[id] = struct{}{}
	}
	e.engine.NotifySelection(e.selectedHorses())
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selection = make(map[string]struct{})
	e.engine.NotifySelection(nil)
}

// selectedHorses returns the selected, unlocked horses of the current
// frame. Locked horses stay selected for display but are excluded from
// transforms.
func (e *Editor) selectedHorses() []drill.Horse {
	frame := e.store.CurrentFrame()
	if frame == nil {
		return nil
	}
	out := make([]drill.Horse, 0, len(e.selection))
	for _, h := range frame.Horses {
		if _, ok := e.selection[h.ID]; ok && !h.Locked {
			out = append(out, h)
		}
	}
	return out
}

// applyProvisional writes horse updates into the current frame with history
// untouched. Used for every mid-drag sample.
func (e *Editor) applyProvisional(updates map[string]drill.Horse) {
	d := e.store.Get()
	frame := d.Frame(e.store.FrameIndex())
	if frame == nil {
		return
	}
	for i, h := range frame.Horses {
		if u, ok := updates[h.ID]; ok {
			frame.Horses[i] = u
		}
	}
	e.store.Set(d, docstore.SetOptions{SkipHistoryClear: true, PreserveFrameIndex: true})
}

// commitHorses applies horse updates as one history-recorded step: the undo
// closure restores the whole pre-change document, the redo closure the
// post-change one.
func (e *Editor) commitHorses(description string, updates map[string]drill.Horse) {
	before := e.store.Get()
	after := before.Clone()
	frame := after.Frame(e.store.FrameIndex())
	if frame == nil {
		return
	}
	for i, h := range frame.Horses {
		if u, ok := updates[h.ID]; ok {
			frame.Horses[i] = u
		}
	}
	e.commitDocument(description, before, after)
}

// commitDocument swaps in the after document and records the before/after
// snapshot pair as one undo entry.
func (e *Editor) commitDocument(description string, before, after drill.Drill) {
	opts := docstore.SetOptions{SkipHistoryClear: true, PreserveFrameIndex: true}
	e.store.Set(after, opts)

	beforeSnap := before.Clone()
	afterSnap := after.Clone()
	e.store.History().Push(history.NewEntry(description,
		func() { e.store.Set(beforeSnap, opts) },
		func() { e.store.Set(afterSnap, opts) },
	))
}

// Undo reverts the last committed step.
func (e *Editor) Undo() {
	e.store.History().Undo()
}

// Redo re-applies the last undone step.
func (e *Editor) Redo() {
	e.store.History().Redo()
}

// AddHorse places a new horse at an arena position on the current frame.
func (e *Editor) AddHorse(label string, pos geometry.Point) string {
	before := e.store.Get()
	after := before.Clone()
	frame := after.Frame(e.store.FrameIndex())
	if frame == nil {
		return ""
	}
	h := drill.NewHorse(label, pos)
	frame.Horses = append(frame.Horses, h)
	e.commitDocument(fmt.Sprintf("Add horse %s", label), before, after)
	return h.ID
}

// DeleteSelected removes every selected horse from the current frame.
func (e *Editor) DeleteSelected() {
	if len(e.selection) == 0 {
		return
	}
	before := e.store.Get()
	after := before.Clone()
	frame := after.Frame(e.store.FrameIndex())
	if frame == nil {
		return
	}
	kept := frame.Horses[:0]
	for _, h := range frame.Horses {
		if _, ok := e.selection[h.ID]; !ok {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(frame.Horses) {
		return
	}
	frame.Horses = kept
	e.commitDocument("Delete horses", before, after)
	e.ClearSelection()
}

// AlignHorizontally aligns the selection on its mean Y. No-op below 2
// horses.
func (e *Editor) AlignHorizontally() {
	e.commitIfChanged("Align horizontally", drill.AlignHorizontally(e.selectedHorses()))
}

// AlignVertically aligns the selection on its mean X. No-op below 2 horses.
func (e *Editor) AlignVertically() {
	e.commitIfChanged("Align vertically", drill.AlignVertically(e.selectedHorses()))
}

// DistributeLine spaces the selection evenly between its two most-separated
// horses. No-op below 3 horses.
func (e *Editor) DistributeLine() {
	e.commitIfChanged("Distribute on line", drill.DistributeAlongLine(e.selectedHorses()))
}

// DistributeCircle spreads the selection evenly around its mean center.
// No-op below 2 horses.
func (e *Editor) DistributeCircle() {
	e.commitIfChanged("Distribute on circle", drill.DistributeAroundCircle(e.selectedHorses()))
}

// RadialDistribute snaps the selection outward to the group radius.
func (e *Editor) RadialDistribute() {
	e.engine.RadialDistribute()
}

func (e *Editor) commitIfChanged(description string, updates map[string]drill.Horse) {
	if len(updates) == 0 {
		return
	}
	e.commitHorses(description, updates)
}
