// Package gait models the discrete movement speeds a horse can be assigned
// and the kinematics derived from them: meters-per-second speed, the length
// of the animation direction arrow, and the inferred duration of a frame
// transition over a given distance.
package gait

import "fmt"

// Gait is a movement-speed category. The zero value is Walk.
// Total order: Walk < Trot < Canter.
type Gait uint8

const (
	Walk Gait = iota
	Trot
	Canter
)

// gaitNames maps gaits to their wire/display names.
var gaitNames = map[Gait]string{
	Walk:   "walk",
	Trot:   "trot",
	Canter: "canter",
}

// speeds holds ground speed per gait in meters per second.
var speeds = map[Gait]float64{
	Walk:   1.7,
	Trot:   3.6,
	Canter: 5.0,
}

// arrowLengths holds the direction-arrow length per gait in meters,
// so a faster horse renders a longer arrow.
var arrowLengths = map[Gait]float64{
	Walk:   2.0,
	Trot:   3.5,
	Canter: 5.0,
}

// colors holds the display color per gait.
var colors = map[Gait]string{
	Walk:   "#4caf50",
	Trot:   "#ff9800",
	Canter: "#f44336",
}

// String returns the lowercase gait name.
func (g Gait) String() string {
	if name, ok := gaitNames[g]; ok {
		return name
	}
	return "walk"
}

// Parse returns the gait for a name. Unknown names fall back to Walk.
func Parse(name string) Gait {
	for g, n := range gaitNames {
		if n == name {
			return g
		}
	}
	return Walk
}

// Speed returns the gait's ground speed in meters per second.
func (g Gait) Speed() float64 {
	if s, ok := speeds[g]; ok {
		return s
	}
	return speeds[Walk]
}

// ArrowLength returns the direction-arrow length in meters.
func (g Gait) ArrowLength() float64 {
	if l, ok := arrowLengths[g]; ok {
		return l
	}
	return arrowLengths[Walk]
}

// Color returns the display color for the gait.
func (g Gait) Color() string {
	if c, ok := colors[g]; ok {
		return c
	}
	return colors[Walk]
}

// DurationFor returns the seconds needed to cover distance meters at this
// gait. Zero or negative distance yields 0.
func (g Gait) DurationFor(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return distance / g.Speed()
}

// MarshalJSON encodes the gait as its name.
func (g Gait) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", g.String())), nil
}

// UnmarshalJSON decodes a gait name; unknown names fall back to Walk.
func (g *Gait) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*g = Parse(s)
	return nil
}
