// Package transform implements the group transformation engine: drag-scoped
// rotate and scale of a selected set of horses about a frozen pivot, plus
// the single-shot radial distribute. The engine never touches the document
// directly; it is wired to the editor through injected read and write
// functions so the same engine drives tests, the command surface, and the
// websocket handlers.
package transform

import (
	"math"
	"sort"
	"strings"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
)

// Config wires the engine to a document owner.
type Config struct {
	// Selected returns the currently selected horses in the current frame.
	Selected func() []drill.Horse
	// Apply writes provisional horse updates with history recording
	// suppressed. Called on every drag sample and for the pre-commit
	// restore.
	Apply func(updates map[string]drill.Horse)
	// Commit writes final horse updates as one history-recorded batch.
	Commit func(description string, updates map[string]drill.Horse)
}

// session is the per-gesture state for one of the two drag kinds. A zero
// session is Idle; Active sessions hold the frozen start-of-drag snapshot.
type session struct {
	active bool
	moved  bool
	// snapshot of each selected horse at drag start; every sample is
	// computed from these, never from live positions, so repeated small
	// deltas cannot accumulate floating-point drift.
	snapshot map[string]drill.Horse
	order    []string
	pivot    geometry.Point

	totalRotation float64 // rotate: accumulated signed angle
	lastAngle     float64 // rotate: previous pointer sample's angle

	initialRadius float64 // scale: pivot-to-pointer distance at start
	factor        float64 // scale: current ratio to initialRadius
}

func (s *session) reset() {
	*s = session{}
}

// Engine holds the rotate and scale gesture state machines. Rotate and
// scale are independent; at most one is active at a time in practice, but
// the engine does not enforce that. Not safe for concurrent use.
type Engine struct {
	cfg Config

	rotate session
	scale  session

	// frozen bounding circle for the duration of any active drag, so the
	// handle affordances do not chase the horses they are moving.
	frozen *geometry.Circle

	selectionKey string
}

// NewEngine creates an engine bound to a document owner.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// selectionFingerprint identifies a selection by its sorted ID set, so two
// slices with the same members in any order compare equal.
func selectionFingerprint(horses []drill.Horse) string {
	ids := make([]string, len(horses))
	for i, h := range horses {
		ids[i] = h.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}

// NotifySelection tells the engine the selection may have changed. When the
// ID set differs and no drag is active, both gesture sessions are cleared.
// Mid-drag changes are ignored; the drag owns its state until release.
func (e *Engine) NotifySelection(horses []drill.Horse) {
	key := selectionFingerprint(horses)
	if key == e.selectionKey {
		return
	}
	if e.rotate.active || e.scale.active {
		return
	}
	e.selectionKey = key
	e.rotate.reset()
	e.scale.reset()
	e.frozen = nil
}

// BoundingCircle returns the minimal enclosing circle of the selection.
// While a drag is active it returns the circle frozen at drag start.
func (e *Engine) BoundingCircle() geometry.Circle {
	if e.frozen != nil {
		return *e.frozen
	}
	return e.liveCircle()
}

func (e *Engine) liveCircle() geometry.Circle {
	horses := e.cfg.Selected()
	points := make([]geometry.Point, len(horses))
	for i, h := range horses {
		points[i] = h.Position
	}
	return geometry.MinimalEnclosingCircle(points)
}

// Dragging reports whether either gesture is mid-drag.
func (e *Engine) Dragging() bool {
	return e.rotate.active || e.scale.active
}

// begin captures the shared Active-transition state: the horse snapshot and
// the pivot frozen from the enclosing circle of current positions.
func (e *Engine) begin(s *session) bool {
	horses := e.cfg.Selected()
	if len(horses) == 0 {
		return false
	}
	circle := e.liveCircle()

	s.active = true
	s.moved = false
	s.pivot = circle.Center
	s.snapshot = make(map[string]drill.Horse, len(horses))
	s.order = make([]string, 0, len(horses))
	for _, h := range horses {
		s.snapshot[h.ID] = h
		s.order = append(s.order, h.ID)
	}

	e.frozen = &circle
	e.selectionKey = selectionFingerprint(horses)
	return true
}

// StartRotate opens a rotate session from the handle's pointer position.
// Empty selections are a no-op.
func (e *Engine) StartRotate(pointer geometry.Point) {
	if e.rotate.active {
		return
	}
	if !e.begin(&e.rotate) {
		return
	}
	e.rotate.totalRotation = 0
	e.rotate.lastAngle = e.rotate.pivot.AngleTo(pointer)
}

// MoveRotate folds one pointer sample into the active rotate session: the
// signed angle delta from the previous sample accumulates, and the total is
// applied to the session-start snapshot.
func (e *Engine) MoveRotate(pointer geometry.Point) {
	s := &e.rotate
	if !s.active {
		return
	}
	angle := s.pivot.AngleTo(pointer)
	s.totalRotation += geometry.AngleDiff(s.lastAngle, angle)
	s.lastAngle = angle
	s.moved = true

	e.cfg.Apply(e.rotatedFromSnapshot(s.totalRotation))
}

// EndRotate closes the rotate session. The live preview is rolled back to
// the snapshot without history, then the net rotation is applied once as a
// single history-recorded batch, so one Undo reverts the whole gesture.
// A session that never moved restores silently (a click, not a drag).
func (e *Engine) EndRotate() {
	s := &e.rotate
	if !s.active {
		return
	}
	e.cfg.Apply(e.snapshotUpdates(s))
	if s.moved {
		e.cfg.Commit("Rotate group", e.rotatedFromSnapshot(s.totalRotation))
	}
	s.reset()
	e.frozen = nil
}

// AbortRotate cancels the session and restores the pre-drag state without
// any history entry.
func (e *Engine) AbortRotate() {
	s := &e.rotate
	if !s.active {
		return
	}
	e.cfg.Apply(e.snapshotUpdates(s))
	s.reset()
	e.frozen = nil
}

func (e *Engine) rotatedFromSnapshot(angle float64) map[string]drill.Horse {
	s := &e.rotate
	out := make(map[string]drill.Horse, len(s.order))
	for _, id := range s.order {
		h := s.snapshot[id]
		h.Position = h.Position.RotateAround(s.pivot, angle)
		h.Direction = geometry.NormalizeAngle(h.Direction + angle)
		out[id] = h
	}
	return out
}

// StartScale opens a scale session. The pivot-to-pointer distance at start
// becomes the reference radius; a zero reference (pointer on the pivot)
// refuses the session rather than divide by zero later.
func (e *Engine) StartScale(pointer geometry.Point) {
	if e.scale.active {
		return
	}
	radius := 0.0
	if len(e.cfg.Selected()) > 0 {
		radius = e.liveCircle().Center.Distance(pointer)
	}
	if radius <= 0 {
		return
	}
	if !e.begin(&e.scale) {
		return
	}
	e.scale.initialRadius = radius
	e.scale.factor = 1
}

// MoveScale folds one pointer sample into the active scale session: the
// factor is the current pivot distance over the frozen initial radius,
// applied to the session-start snapshot. Direction is untouched by scale.
func (e *Engine) MoveScale(pointer geometry.Point) {
	s := &e.scale
	if !s.active {
		return
	}
	s.factor = s.pivot.Distance(pointer) / s.initialRadius
	s.moved = true

	e.cfg.Apply(e.scaledFromSnapshot(s.factor))
}

// EndScale closes the scale session with the same restore-then-reapply
// sequence as EndRotate.
func (e *Engine) EndScale() {
	s := &e.scale
	if !s.active {
		return
	}
	e.cfg.Apply(e.snapshotUpdates(s))
	if s.moved {
		e.cfg.Commit("Scale group", e.scaledFromSnapshot(s.factor))
	}
	s.reset()
	e.frozen = nil
}

// AbortScale cancels the session and restores the pre-drag state without
// any history entry.
func (e *Engine) AbortScale() {
	s := &e.scale
	if !s.active {
		return
	}
	e.cfg.Apply(e.snapshotUpdates(s))
	s.reset()
	e.frozen = nil
}

func (e *Engine) scaledFromSnapshot(factor float64) map[string]drill.Horse {
	s := &e.scale
	out := make(map[string]drill.Horse, len(s.order))
	for _, id := range s.order {
		h := s.snapshot[id]
		h.Position = h.Position.ScaleAround(s.pivot, factor)
		out[id] = h
	}
	return out
}

func (e *Engine) snapshotUpdates(s *session) map[string]drill.Horse {
	out := make(map[string]drill.Horse, len(s.order))
	for _, id := range s.order {
		out[id] = s.snapshot[id]
	}
	return out
}

// RadialDistribute pushes every selected horse outward to the group's
// maximum center distance, preserving each horse's polar angle, and turns
// each horse to the tangential direction closer to its current heading.
// Single-shot and history-recorded. Fewer than 2 horses or an all-coincident
// selection is a no-op.
func (e *Engine) RadialDistribute() {
	horses := e.cfg.Selected()
	if len(horses) < 2 {
		return
	}

	center := geometry.Point{}
	for i := range horses {
		center = center.Add(horses[i].Position)
	}
	center = center.Scale(1 / float64(len(horses)))

	radius := 0.0
	for i := range horses {
		if d := center.Distance(horses[i].Position); d > radius {
			radius = d
		}
	}
	if radius <= 0 {
		return
	}

	out := make(map[string]drill.Horse, len(horses))
	for _, h := range horses {
		angle := center.AngleTo(h.Position)
		if center.Distance(h.Position) <= 0 {
			// a horse sitting exactly on the center has no radial angle;
			// leave it where it is
			out[h.ID] = h
			continue
		}
		h.Position = geometry.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
		h.Direction = nearestTangent(angle, h.Direction)
		out[h.ID] = h
	}
	e.cfg.Commit("Distribute radially", out)
}

// nearestTangent picks whichever of the two tangential headings at the
// given radial angle is angularly closer to the current heading.
func nearestTangent(radial, current float64) float64 {
	cw := geometry.NormalizeAngle(radial - math.Pi/2)
	ccw := geometry.NormalizeAngle(radial + math.Pi/2)
	if math.Abs(geometry.AngleDiff(current, ccw)) <= math.Abs(geometry.AngleDiff(current, cw)) {
		return ccw
	}
	return cw
}
