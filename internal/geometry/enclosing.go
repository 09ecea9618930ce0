package geometry

import "math"

// MinimalEnclosingCircle computes the smallest circle containing every point,
// using the incremental Welzl construction: walk the points keeping a circle
// around everything seen so far, and whenever a point falls outside, rebuild
// the circle with that point pinned to the boundary.
//
// Degenerate input never errors: an empty slice yields a radius-0 circle at
// the origin, a single point (or all-coincident points) a radius-0 circle at
// that point.
func MinimalEnclosingCircle(points []Point) Circle {
	if len(points) == 0 {
		return Circle{}
	}

	c := Circle{Center: points[0], Radius: 0}
	for i := 1; i < len(points); i++ {
		if !c.Contains(points[i]) {
			c = circleWithBoundaryPoint(points[:i], points[i])
		}
	}
	return c
}

// circleWithBoundaryPoint returns the minimal circle over points with p on
// the boundary.
func circleWithBoundaryPoint(points []Point, p Point) Circle {
	c := Circle{Center: p, Radius: 0}
	for i := 0; i < len(points); i++ {
		if !c.Contains(points[i]) {
			c = circleWithTwoBoundaryPoints(points[:i], p, points[i])
		}
	}
	return c
}

// circleWithTwoBoundaryPoints returns the minimal circle over points with
// both p and q on the boundary.
func circleWithTwoBoundaryPoints(points []Point, p, q Point) Circle {
	c := circleFromTwo(p, q)
	for i := 0; i < len(points); i++ {
		if !c.Contains(points[i]) {
			c = circleFromThree(p, q, points[i])
		}
	}
	return c
}

// circleFromTwo returns the circle with pq as diameter.
func circleFromTwo(p, q Point) Circle {
	center := p.Midpoint(q)
	return Circle{Center: center, Radius: center.Distance(p)}
}

// circleFromThree returns the circumcircle of p, q, r. Collinear or
// near-collinear triples have no circumcircle; fall back to the smallest of
// the three pairwise circles that still contains the third point.
func circleFromThree(p, q, r Point) Circle {
	ax, ay := p.X, p.Y
	bx, by := q.X, q.Y
	cx, cy := r.X, r.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return bestPairwiseCircle(p, q, r)
	}

	aSq := ax*ax + ay*ay
	bSq := bx*bx + by*by
	cSq := cx*cx + cy*cy
	center := Point{
		X: (aSq*(by-cy) + bSq*(cy-ay) + cSq*(ay-by)) / d,
		Y: (aSq*(cx-bx) + bSq*(ax-cx) + cSq*(bx-ax)) / d,
	}
	return Circle{Center: center, Radius: center.Distance(p)}
}

// bestPairwiseCircle picks the smallest diametral circle of any pair that
// contains the remaining point.
func bestPairwiseCircle(p, q, r Point) Circle {
	candidates := [3]Circle{
		circleFromTwo(p, q),
		circleFromTwo(p, r),
		circleFromTwo(q, r),
	}
	third := [3]Point{r, q, p}

	best := Circle{Radius: math.Inf(1)}
	for i, c := range candidates {
		if c.Contains(third[i]) && c.Radius < best.Radius {
			best = c
		}
	}
	if math.IsInf(best.Radius, 1) {
		// Cannot happen for real inputs, but never return a broken circle.
		return candidates[0]
	}
	return best
}
