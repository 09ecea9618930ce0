package drill

import (
	"math"
	"sort"

	"github.com/equidrill/drillbook/internal/geometry"
)

// The alignment and distribution helpers are pure and single-shot: they take
// the selected horses and return the new state for each horse that moves,
// keyed by horse ID. An empty result means there was nothing to do —
// insufficient selection and degenerate geometry are not errors (they occur
// constantly from normal UI state).

// circleSearchStep is the rotation-offset discretization used when fitting
// the even circle arrangement to the original positions, in radians.
const circleSearchStep = 5 * math.Pi / 180

// AlignHorizontally moves every horse onto the horizontal line through the
// mean of their Y coordinates. Needs at least 2 horses.
func AlignHorizontally(horses []Horse) map[string]Horse {
	if len(horses) < 2 {
		return nil
	}
	mean := 0.0
	for i := range horses {
		mean += horses[i].Position.Y
	}
	mean /= float64(len(horses))

	out := make(map[string]Horse, len(horses))
	for _, h := range horses {
		h.Position.Y = mean
		out[h.ID] = h
	}
	return out
}

// AlignVertically moves every horse onto the vertical line through the mean
// of their X coordinates. Needs at least 2 horses.
func AlignVertically(horses []Horse) map[string]Horse {
	if len(horses) < 2 {
		return nil
	}
	mean := 0.0
	for i := range horses {
		mean += horses[i].Position.X
	}
	mean /= float64(len(horses))

	out := make(map[string]Horse, len(horses))
	for _, h := range horses {
		h.Position.X = mean
		out[h.ID] = h
	}
	return out
}

// DistributeAlongLine spaces the horses evenly along the segment between the
// two most-separated horses. Those two endpoints stay put; everyone else is
// projected onto the segment, ordered by projection, and placed at even
// intervals by rank. Needs at least 3 horses (2 have no interior to
// redistribute); all-coincident selections are a no-op.
func DistributeAlongLine(horses []Horse) map[string]Horse {
	if len(horses) < 3 {
		return nil
	}

	// Find the endpoint pair with maximum separation.
	var ai, bi int
	maxDist := -1.0
	for i := 0; i < len(horses); i++ {
		for j := i + 1; j < len(horses); j++ {
			d := horses[i].Position.Distance(horses[j].Position)
			if d > maxDist {
				maxDist = d
				ai, bi = i, j
			}
		}
	}
	if maxDist <= 0 {
		return nil
	}

	start := horses[ai].Position
	end := horses[bi].Position
	line := end.Sub(start)
	lenSq := line.X*line.X + line.Y*line.Y

	// Order horses by their projection scalar onto the line.
	type ranked struct {
		horse Horse
		t     float64
	}
	order := make([]ranked, len(horses))
	for i, h := range horses {
		rel := h.Position.Sub(start)
		order[i] = ranked{horse: h, t: (rel.X*line.X + rel.Y*line.Y) / lenSq}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].t < order[j].t })

	out := make(map[string]Horse, len(horses))
	n := float64(len(order) - 1)
	for rank, r := range order {
		h := r.horse
		h.Position = geometry.Lerp(start, end, float64(rank)/n)
		out[h.ID] = h
	}
	return out
}

// DistributeAroundCircle places the horses at evenly spaced angles on the
// circle centered on their arithmetic mean with radius equal to the current
// maximum distance from that center. Horses keep their angular order; the
// whole even arrangement is then rigidly rotated — searching offsets at a
// 5 degree step over the full turn — to minimize total squared displacement
// from the original positions, so nobody is arbitrarily relabeled to a far
// slot. Each horse's direction turns by the same delta as its position.
// Needs at least 2 horses; coincident selections are a no-op.
func DistributeAroundCircle(horses []Horse) map[string]Horse {
	if len(horses) < 2 {
		return nil
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
		return nil
	}

	// Keep the existing angular order around the center.
	type polar struct {
		horse Horse
		angle float64
	}
	order := make([]polar, len(horses))
	for i, h := range horses {
		order[i] = polar{horse: h, angle: center.AngleTo(h.Position)}
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].angle < order[j].angle })

	step := 2 * math.Pi / float64(len(order))

	slotPosition := func(slot int, offset float64) geometry.Point {
		a := float64(slot)*step + offset
		return geometry.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		}
	}

	bestOffset := 0.0
	bestCost := math.Inf(1)
	for offset := 0.0; offset < 2*math.Pi; offset += circleSearchStep {
		cost := 0.0
		for slot, p := range order {
			d := slotPosition(slot, offset).Distance(p.horse.Position)
			cost += d * d
		}
		if cost < bestCost {
			bestCost = cost
			bestOffset = offset
		}
	}

	out := make(map[string]Horse, len(order))
	for slot, p := range order {
		h := p.horse
		slotAngle := float64(slot)*step + bestOffset
		h.Position = slotPosition(slot, bestOffset)
		h.Direction = geometry.NormalizeAngle(h.Direction + geometry.AngleDiff(p.angle, slotAngle))
		out[h.ID] = h
	}
	return out
}
