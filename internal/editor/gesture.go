package editor

import (
	"math"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
)

// dragKind tags the active drag session so each pointer sample dispatches
// without guessing from incidental state.
type dragKind uint8

const (
	dragNone dragKind = iota
	dragHorse
	dragRotate
	dragScale
	dragPinch
)

// dragState is a tagged union: the fields past kind are only meaningful for
// the kinds that set them.
type dragState struct {
	kind dragKind

	// horse drag
	horseID     string
	startScreen geometry.Point
	startArena  geometry.Point
	lastDelta   geometry.Point
	moved       bool
	snapshot    map[string]drill.Horse
	order       []string
	frozen      geometry.Circle

	// pinch
	pinchStartDist float64
	pinchStartZoom float64
}

// Pointer is one mouse/stylus sample in screen pixels.
type Pointer struct {
	X, Y float64
}

// Touch is one active touch point in screen pixels.
type Touch struct {
	ID   int
	X, Y float64
}

func (p Pointer) point() geometry.Point { return geometry.Point{X: p.X, Y: p.Y} }
func (t Touch) point() geometry.Point   { return geometry.Point{X: t.X, Y: t.Y} }

// Dragging reports whether any drag session is active.
func (e *Editor) Dragging() bool {
	return e.drag.kind != dragNone || e.engine.Dragging()
}

// BoundingCircle returns the selection's bounding circle in arena meters,
// frozen while any drag session is active.
func (e *Editor) BoundingCircle() geometry.Circle {
	if e.drag.kind == dragHorse {
		return e.drag.frozen
	}
	return e.engine.BoundingCircle()
}

// HandlePositions returns the rotate and scale handle centers in canvas
// pixels: rotate rides the top of the bounding circle, scale the right.
func (e *Editor) HandlePositions() (rotate, scale geometry.Point) {
	circle := e.BoundingCircle()
	center := e.arena.PointToCanvas(circle.Center, e.canvasWidth, e.canvasHeight)
	r := circle.Radius * e.canvasWidth / e.arena.Length
	rotate = geometry.Point{X: center.X, Y: center.Y - r}
	scale = geometry.Point{X: center.X + r, Y: center.Y}
	return rotate, scale
}

// hitHorse returns the topmost horse of the current frame within the pick
// radius of a canvas point, or nil.
func (e *Editor) hitHorse(canvas geometry.Point) *drill.Horse {
	frame := e.store.CurrentFrame()
	if frame == nil {
		return nil
	}
	for i := len(frame.Horses) - 1; i >= 0; i-- {
		h := frame.Horses[i]
		hc := e.arena.PointToCanvas(h.Position, e.canvasWidth, e.canvasHeight)
		if hc.Distance(canvas) <= horseHitRadius {
			out := h
			return &out
		}
	}
	return nil
}

// PointerDown begins a drag session: a press on a handle opens a rotate or
// scale gesture, a press on a horse opens a move gesture, a press on empty
// arena clears the selection.
func (e *Editor) PointerDown(p Pointer) {
	if e.drag.kind != dragNone {
		return
	}
	canvas := e.screenToCanvas(p.point())
	arenaPt := e.screenToArena(p.point())

	if len(e.selection) > 0 {
		rotate, scale := e.HandlePositions()
		switch {
		case canvas.Distance(rotate) <= horseHitRadius:
			e.engine.StartRotate(arenaPt)
			if e.engine.Dragging() {
				e.drag = dragState{kind: dragRotate}
			}
			return
		case canvas.Distance(scale) <= horseHitRadius:
			e.engine.StartScale(arenaPt)
			if e.engine.Dragging() {
				e.drag = dragState{kind: dragScale}
			}
			return
		}
	}

	if h := e.hitHorse(canvas); h != nil {
		if _, ok := e.selection[h.ID]; !ok {
			e.Select(h.ID)
		}
		e.beginHorseDrag(h.ID, p.point(), arenaPt)
		return
	}

	e.ClearSelection()
}

// beginHorseDrag snapshots the horses that will move so every sample is
// computed from drag-start state, and freezes the bounding circle.
func (e *Editor) beginHorseDrag(horseID string, screen, arenaPt geometry.Point) {
	moving := e.selectedHorses()
	if len(moving) == 0 {
		return
	}
	st := dragState{
		kind:        dragHorse,
		horseID:     horseID,
		startScreen: screen,
		startArena:  arenaPt,
		snapshot:    make(map[string]drill.Horse, len(moving)),
		frozen:      e.engine.BoundingCircle(),
	}
	for _, h := range moving {
		st.snapshot[h.ID] = h
		st.order = append(st.order, h.ID)
	}
	e.drag = st
}

// PointerMove feeds one sample into the active drag session.
func (e *Editor) PointerMove(p Pointer) {
	switch e.drag.kind {
	case dragHorse:
		e.moveHorseDrag(p)
	case dragRotate:
		e.engine.MoveRotate(e.screenToArena(p.point()))
	case dragScale:
		e.engine.MoveScale(e.screenToArena(p.point()))
	}
}

func (e *Editor) moveHorseDrag(p Pointer) {
	st := &e.drag
	if !st.moved && st.startScreen.Distance(p.point()) <= clickSlop {
		return
	}
	st.moved = true
	st.lastDelta = e.screenToArena(p.point()).Sub(st.startArena)
	e.applyProvisional(e.draggedFromSnapshot(st.lastDelta))
}

// draggedFromSnapshot offsets every snapshotted horse by the accumulated
// arena-space delta from the drag origin.
func (e *Editor) draggedFromSnapshot(delta geometry.Point) map[string]drill.Horse {
	out := make(map[string]drill.Horse, len(e.drag.order))
	for _, id := range e.drag.order {
		h := e.drag.snapshot[id]
		h.Position = h.Position.Add(delta)
		out[id] = h
	}
	return out
}

// PointerUp ends the active drag session. A horse drag that moved restores
// the pre-drag state and commits the net move as one undoable step; one
// that never moved is a click and only affects the selection.
func (e *Editor) PointerUp(p Pointer) {
	switch e.drag.kind {
	case dragHorse:
		st := e.drag
		if !st.moved {
			e.drag = dragState{}
			e.Select(st.horseID)
			return
		}
		e.applyProvisional(e.snapshotUpdates())
		final := e.draggedFromSnapshot(st.lastDelta)
		e.drag = dragState{}
		e.commitHorses("Move horses", final)
	case dragRotate:
		e.drag = dragState{}
		e.engine.EndRotate()
	case dragScale:
		e.drag = dragState{}
		e.engine.EndScale()
	}
}

// CancelDrag aborts any active drag, restoring pre-drag state with no
// history entry.
func (e *Editor) CancelDrag() {
	switch e.drag.kind {
	case dragHorse:
		if e.drag.moved {
			e.applyProvisional(e.snapshotUpdates())
		}
	case dragRotate:
		e.engine.AbortRotate()
	case dragScale:
		e.engine.AbortScale()
	}
	e.drag = dragState{}
}

func (e *Editor) snapshotUpdates() map[string]drill.Horse {
	out := make(map[string]drill.Horse, len(e.drag.order))
	for _, id := range e.drag.order {
		out[id] = e.drag.snapshot[id]
	}
	return out
}

// TouchStart routes touch input: one finger behaves like a pointer press,
// two fingers open a pinch-zoom session, aborting any drag in progress.
func (e *Editor) TouchStart(touches []Touch) {
	switch len(touches) {
	case 1:
		e.PointerDown(Pointer{X: touches[0].X, Y: touches[0].Y})
	case 2:
		e.CancelDrag()
		e.drag = dragState{
			kind:           dragPinch,
			pinchStartDist: touches[0].point().Distance(touches[1].point()),
			pinchStartZoom: e.zoom,
		}
	}
}

// TouchMove advances the pinch or delegates to the pointer path.
func (e *Editor) TouchMove(touches []Touch) {
	if e.drag.kind == dragPinch {
		if len(touches) < 2 {
			return
		}
		e.pinch(touches[0].point(), touches[1].point())
		return
	}
	if len(touches) == 1 {
		e.PointerMove(Pointer{X: touches[0].X, Y: touches[0].Y})
	}
}

// TouchEnd closes the pinch once fewer than two fingers remain, or ends the
// single-finger drag.
func (e *Editor) TouchEnd(touches []Touch) {
	if e.drag.kind == dragPinch {
		if len(touches) < 2 {
			e.drag = dragState{}
		}
		return
	}
	if len(touches) == 0 {
		e.PointerUp(Pointer{})
	}
}

// pinch rescales the view by the finger-distance ratio, clamped to the zoom
// bounds, keeping the arena point under the pinch midpoint fixed.
func (e *Editor) pinch(a, b geometry.Point) {
	st := &e.drag
	if st.pinchStartDist <= 0 {
		return
	}
	dist := a.Distance(b)
	newZoom := geometry.Clamp(st.pinchStartZoom*dist/st.pinchStartDist, MinZoom, MaxZoom)
	if math.Abs(newZoom-e.zoom) < 1e-12 {
		return
	}
	mid := a.Midpoint(b)
	// keep the canvas point under the midpoint stationary:
	// (mid - pan)/zoom == (mid - pan')/zoom'
	anchor := e.screenToCanvas(mid)
	e.zoom = newZoom
	e.pan = mid.Sub(anchor.Scale(newZoom))
}
