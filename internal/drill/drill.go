// Package drill holds the document model for a choreographed routine: a
// Drill is an ordered sequence of Frames, each owning the Horses placed on
// the arena at that moment. All mutation helpers are pure data transforms;
// persistence and rendering live elsewhere.
package drill

import (
	"time"

	"github.com/google/uuid"

	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
)

// DefaultFrameDuration is the seconds assigned to a newly created frame
// until the user or the gait model overrides it.
const DefaultFrameDuration = 5.0

// Horse is a single rider/horse placed on the arena. A horse belongs to
// exactly one frame; duplicating a frame copies its horses.
type Horse struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Position     geometry.Point `json:"position"`
	Direction    float64        `json:"direction"` // radians, 0 = +x axis, counter-clockwise
	Speed        gait.Gait      `json:"speed"`
	Locked       bool           `json:"locked"`
	SubPatternID string         `json:"subPatternId,omitempty"`
}

// Frame is one keyframe of the routine. Timestamp is seconds from drill
// start and is always derived: frame i's timestamp equals the sum of the
// durations of frames 0..i-1.
type Frame struct {
	ID           string  `json:"id"`
	Index        int     `json:"index"`
	Timestamp    float64 `json:"timestamp"`
	Duration     float64 `json:"duration"`
	Horses       []Horse `json:"horses"`
	IsKeyFrame   bool    `json:"isKeyFrame,omitempty"`
	ManeuverName string  `json:"maneuverName,omitempty"`
}

// SubPattern is a named, lockable cluster of horses referenced by ID.
type SubPattern struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	HorseIDs []string `json:"horseIds"`
	Locked   bool     `json:"locked"`
}

// Drill is the root aggregate. Frame order is the routine order.
type Drill struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Frames      []Frame           `json:"frames"`
	RiderNames  []string          `json:"riderNames,omitempty"`
	AudioTrack  string            `json:"audioTrack,omitempty"`
	SubPatterns []SubPattern      `json:"subPatterns,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// New creates a named drill seeded with one empty frame.
func New(name string) Drill {
	d := Drill{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Frames: []Frame{{
			ID:       uuid.NewString(),
			Duration: DefaultFrameDuration,
		}},
	}
	d.RecomputeTimestamps()
	return d
}

// NewHorse creates a horse with a fresh ID at the given position.
func NewHorse(label string, pos geometry.Point) Horse {
	return Horse{
		ID:       uuid.NewString(),
		Label:    label,
		Position: pos,
		Speed:    gait.Walk,
	}
}

// Clone returns a structural deep copy of the drill. Snapshots taken for
// history entries must go through here so later in-place edits cannot reach
// stored state.
func (d Drill) Clone() Drill {
	out := d
	out.Frames = make([]Frame, len(d.Frames))
	for i, f := range d.Frames {
		out.Frames[i] = f.Clone()
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	if d.RiderNames != nil {
		out.RiderNames = append([]string(nil), d.RiderNames...)
	}
	if d.SubPatterns != nil {
		out.SubPatterns = make([]SubPattern, len(d.SubPatterns))
		for i, sp := range d.SubPatterns {
			out.SubPatterns[i] = sp
			out.SubPatterns[i].HorseIDs = append([]string(nil), sp.HorseIDs...)
		}
	}
	return out
}

// Clone returns a deep copy of the frame and its horses.
func (f Frame) Clone() Frame {
	out := f
	out.Horses = append([]Horse(nil), f.Horses...)
	return out
}

// RecomputeTimestamps re-derives every frame's Timestamp and Index from the
// duration sequence. Must run after any duration edit, insert, remove,
// reorder, or load.
func (d *Drill) RecomputeTimestamps() {
	elapsed := 0.0
	for i := range d.Frames {
		d.Frames[i].Index = i
		d.Frames[i].Timestamp = elapsed
		elapsed += d.Frames[i].Duration
	}
}

// TotalDuration returns the seconds from drill start to the end of the last
// frame's transition.
func (d Drill) TotalDuration() float64 {
	if len(d.Frames) == 0 {
		return 0
	}
	last := d.Frames[len(d.Frames)-1]
	return last.Timestamp + last.Duration
}

// Frame returns a pointer to the frame at index, or nil when out of range.
func (d *Drill) Frame(index int) *Frame {
	if index < 0 || index >= len(d.Frames) {
		return nil
	}
	return &d.Frames[index]
}

// InsertFrame inserts f at index (clamped to [0, len]) and recomputes
// timestamps.
func (d *Drill) InsertFrame(index int, f Frame) {
	if index < 0 {
		index = 0
	}
	if index > len(d.Frames) {
		index = len(d.Frames)
	}
	d.Frames = append(d.Frames, Frame{})
	copy(d.Frames[index+1:], d.Frames[index:])
	d.Frames[index] = f
	d.RecomputeTimestamps()
}

// RemoveFrame deletes the frame at index. Out-of-range indexes are a no-op.
func (d *Drill) RemoveFrame(index int) {
	if index < 0 || index >= len(d.Frames) {
		return
	}
	d.Frames = append(d.Frames[:index], d.Frames[index+1:]...)
	d.RecomputeTimestamps()
}

// MoveFrame reorders the frame at from to position to. Out-of-range indexes
// are a no-op.
func (d *Drill) MoveFrame(from, to int) {
	if from < 0 || from >= len(d.Frames) || to < 0 || to >= len(d.Frames) || from == to {
		return
	}
	f := d.Frames[from]
	d.Frames = append(d.Frames[:from], d.Frames[from+1:]...)
	d.Frames = append(d.Frames, Frame{})
	copy(d.Frames[to+1:], d.Frames[to:])
	d.Frames[to] = f
	d.RecomputeTimestamps()
}

// DuplicateFrame copies the frame at index and inserts the copy directly
// after it. The copy gets a fresh frame ID; horses are copied by value so
// the two frames share nothing.
func (d *Drill) DuplicateFrame(index int) {
	if index < 0 || index >= len(d.Frames) {
		return
	}
	dup := d.Frames[index].Clone()
	dup.ID = uuid.NewString()
	d.InsertFrame(index+1, dup)
}

// SetFrameDuration updates a frame's duration and recomputes timestamps.
func (d *Drill) SetFrameDuration(index int, duration float64) {
	if index < 0 || index >= len(d.Frames) {
		return
	}
	if duration < 0 {
		duration = 0
	}
	d.Frames[index].Duration = duration
	d.RecomputeTimestamps()
}

// HorseByID finds a horse in the frame by ID.
func (f *Frame) HorseByID(id string) *Horse {
	for i := range f.Horses {
		if f.Horses[i].ID == id {
			return &f.Horses[i]
		}
	}
	return nil
}

// HorseByLabel finds a horse in the frame by label. Labels are the identity
// used to match horses across frames.
func (f *Frame) HorseByLabel(label string) *Horse {
	for i := range f.Horses {
		if f.Horses[i].Label == label {
			return &f.Horses[i]
		}
	}
	return nil
}

// InferredDuration computes how long the transition from one frame to the
// next should take: the slowest horse sets the pace. Horses are matched by
// label; frames with no matched horses yield 0.
func InferredDuration(from, to Frame) float64 {
	max := 0.0
	for i := range from.Horses {
		h := &from.Horses[i]
		next := to.HorseByLabel(h.Label)
		if next == nil {
			continue
		}
		dur := h.Speed.DurationFor(h.Position.Distance(next.Position))
		if dur > max {
			max = dur
		}
	}
	return max
}
