package editor

import (
	"fmt"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
)

// currentHorse returns a copy of the horse with the given ID on the cursor
// frame, or nil.
func (e *Editor) currentHorse(id string) *drill.Horse {
	frame := e.store.CurrentFrame()
	if frame == nil {
		return nil
	}
	return frame.HorseByID(id)
}

// SetGait changes a horse's gait on the current frame.
func (e *Editor) SetGait(id string, g gait.Gait) {
	h := e.currentHorse(id)
	if h == nil || h.Speed == g {
		return
	}
	h.Speed = g
	e.commitHorses(fmt.Sprintf("Set gait %s", g), map[string]drill.Horse{id: *h})
}

// SetDirection changes a horse's facing direction (radians) on the current
// frame.
func (e *Editor) SetDirection(id string, radians float64) {
	h := e.currentHorse(id)
	if h == nil || h.Direction == radians {
		return
	}
	h.Direction = radians
	e.commitHorses("Set direction", map[string]drill.Horse{id: *h})
}

// SetLocked locks or unlocks a horse. Locked horses stay selectable but are
// excluded from transforms.
func (e *Editor) SetLocked(id string, locked bool) {
	h := e.currentHorse(id)
	if h == nil || h.Locked == locked {
		return
	}
	h.Locked = locked
	desc := "Lock horse"
	if !locked {
		desc = "Unlock horse"
	}
	e.commitHorses(desc, map[string]drill.Horse{id: *h})
}

// SetLabel renames a horse on the current frame. Labels carry horse identity
// across frames, so renaming changes playback matching.
func (e *Editor) SetLabel(id, label string) {
	h := e.currentHorse(id)
	if h == nil || h.Label == label || label == "" {
		return
	}
	h.Label = label
	e.commitHorses(fmt.Sprintf("Rename horse to %s", label), map[string]drill.Horse{id: *h})
}

// RenameDrill changes the document's display name.
func (e *Editor) RenameDrill(name string) {
	before := e.store.Get()
	if name == "" || before.Name == name {
		return
	}
	after := before.Clone()
	after.Name = name
	e.commitDocument(fmt.Sprintf("Rename drill to %s", name), before, after)
}
