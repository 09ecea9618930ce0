// Package geometry provides the 2D point math, arena/canvas coordinate
// mapping, and enclosing-circle computation the editor is built on.
// All functions are pure; positions are meters with the origin at the
// arena center unless a name says canvas (pixels).
package geometry

import "math"

// Point is a 2D coordinate. In arena space the unit is meters with the
// origin at the arena center; in canvas space the unit is pixels with the
// origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle is a center point plus radius, in whichever space the center is in.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// AngleTo returns the angle of the vector from p to q, in radians,
// 0 = +x axis, increasing counter-clockwise.
func (p Point) AngleTo(q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// RotateAround rotates p about center by angle radians (counter-clockwise).
func (p Point) RotateAround(center Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// ScaleAround scales p about center by factor.
func (p Point) ScaleAround(center Point, factor float64) Point {
	return Point{
		X: center.X + (p.X-center.X)*factor,
		Y: center.Y + (p.Y-center.Y)*factor,
	}
}

// Contains reports whether q lies inside or on c, within a small tolerance
// so boundary points survive floating-point noise.
func (c Circle) Contains(q Point) bool {
	return c.Center.Distance(q) <= c.Radius+1e-9*(1+c.Radius)
}

// NormalizeAngle wraps a into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed shortest rotation taking angle from to angle
// to, in (-π, π].
func AngleDiff(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// LerpAngle interpolates between two angles along the shortest arc.
// t is clamped to [0, 1].
func LerpAngle(from, to, t float64) float64 {
	t = Clamp(t, 0, 1)
	return NormalizeAngle(from + AngleDiff(from, to)*t)
}

// Lerp interpolates linearly between p and q. t is clamped to [0, 1].
func Lerp(p, q Point, t float64) Point {
	t = Clamp(t, 0, 1)
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
