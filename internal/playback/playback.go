// Package playback advances a shared current-time value across frame
// boundaries and interpolates horse poses between adjacent frames. The
// player owns no clock; an external ticker calls Advance with real elapsed
// seconds, and scrubbing seeks directly.
package playback

import (
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
)

// State is the playback state machine.
type State uint8

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Player drives interpolation over a drill document. The document is read
// through an injected accessor so the player always sees current edits.
// Not safe for concurrent use.
type Player struct {
	doc         func() drill.Drill
	state       State
	currentTime float64
}

// NewPlayer creates a stopped player reading the drill through doc.
func NewPlayer(doc func() drill.Drill) *Player {
	return &Player{doc: doc}
}

// State returns the current playback state.
func (p *Player) State() State {
	return p.state
}

// CurrentTime returns seconds from drill start.
func (p *Player) CurrentTime() float64 {
	return p.currentTime
}

// Play starts playback, or resumes it from the current time when paused.
func (p *Player) Play() {
	p.state = Playing
}

// Pause holds the current time. No-op unless playing.
func (p *Player) Pause() {
	if p.state == Playing {
		p.state = Paused
	}
}

// Stop halts playback and rewinds to time zero.
func (p *Player) Stop() {
	p.state = Stopped
	p.currentTime = 0
}

// Seek sets the current time directly, clamped to the drill's duration.
// Works in any state; scrubbing does not require play.
func (p *Player) Seek(t float64) {
	p.currentTime = geometry.Clamp(t, 0, p.doc().TotalDuration())
}

// Advance moves the current time forward by dt seconds while playing.
// Passing the end of the last frame stops playback.
func (p *Player) Advance(dt float64) {
	if p.state != Playing || dt <= 0 {
		return
	}
	p.currentTime += dt
	if total := p.doc().TotalDuration(); p.currentTime >= total {
		p.currentTime = total
		p.Stop()
	}
}

// Sample returns the interpolated horse poses at the current time.
func (p *Player) Sample() []drill.Horse {
	return SampleAt(p.doc(), p.currentTime)
}

// SampleAt computes the horse poses of d at time t: locate the bracketing
// frame pair by timestamp and interpolate between them. Before the first
// frame it returns the first frame's horses; at or past the end, the last
// frame's.
func SampleAt(d drill.Drill, t float64) []drill.Horse {
	if len(d.Frames) == 0 {
		return nil
	}
	k := bracketIndex(d.Frames, t)
	from := d.Frames[k]
	if k+1 >= len(d.Frames) {
		return append([]drill.Horse(nil), from.Horses...)
	}
	to := d.Frames[k+1]

	progress := 0.0
	if from.Duration > 0 {
		progress = geometry.Clamp((t-from.Timestamp)/from.Duration, 0, 1)
	} else if t >= from.Timestamp {
		progress = 1
	}
	return Interpolate(from, to, progress)
}

// bracketIndex returns the index of the frame whose transition covers t:
// the last frame with timestamp <= t.
func bracketIndex(frames []drill.Frame, t float64) int {
	k := 0
	for i := range frames {
		if frames[i].Timestamp <= t {
			k = i
		} else {
			break
		}
	}
	return k
}

// Interpolate blends the poses of two adjacent frames at progress t in
// [0, 1]. Horses are matched across frames by label; a horse present in
// only one frame keeps its pose from the frame it appears in. Direction
// blends along the shortest angular path so horses never spin the long way
// around.
func Interpolate(from, to drill.Frame, t float64) []drill.Horse {
	out := make([]drill.Horse, 0, len(from.Horses))
	for _, h := range from.Horses {
		next := to.HorseByLabel(h.Label)
		if next == nil {
			out = append(out, h)
			continue
		}
		h.Position = geometry.Lerp(h.Position, next.Position, t)
		h.Direction = geometry.LerpAngle(h.Direction, next.Direction, t)
		out = append(out, h)
	}
	return out
}
