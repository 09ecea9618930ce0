package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestPointToCanvas_ArenaCenter(t *testing.T) {
	a := DefaultArena()
	got := a.PointToCanvas(Point{X: 0, Y: 0}, 800, 400)

	if got.X != 400 {
		t.Errorf("expected X=400, got %f", got.X)
	}
	if got.Y != 200 {
		t.Errorf("expected Y=200, got %f", got.Y)
	}
}

func TestPointToCanvas_ArenaCorner(t *testing.T) {
	a := DefaultArena()
	got := a.PointToCanvas(Point{X: -40, Y: -20}, 800, 400)

	if got.X != 0 {
		t.Errorf("expected X=0, got %f", got.X)
	}
	if got.Y != 0 {
		t.Errorf("expected Y=0, got %f", got.Y)
	}
}

func TestPointToCanvas_OutsideArenaClamps(t *testing.T) {
	a := DefaultArena()
	got := a.PointToCanvas(Point{X: 100, Y: 50}, 800, 400)

	if got.X != 800 {
		t.Errorf("expected X clamped to 800, got %f", got.X)
	}
	if got.Y != 400 {
		t.Errorf("expected Y clamped to 400, got %f", got.Y)
	}
}

func TestCanvasToPoint_OutOfBoundsClampsToBoundary(t *testing.T) {
	a := DefaultArena()
	got := a.CanvasToPoint(900, 500, 800, 400)

	if got.X != 40 {
		t.Errorf("expected X=40 (arena edge), got %f", got.X)
	}
	if got.Y != 20 {
		t.Errorf("expected Y=20 (arena edge), got %f", got.Y)
	}
}

func TestCanvasToPoint_RoundTrip(t *testing.T) {
	a := DefaultArena()
	orig := Point{X: 12.5, Y: -7.25}

	canvas := a.PointToCanvas(orig, 800, 400)
	back := a.CanvasToPoint(canvas.X, canvas.Y, 800, 400)

	if math.Abs(back.X-orig.X) > eps {
		t.Errorf("expected X=%f after round trip, got %f", orig.X, back.X)
	}
	if math.Abs(back.Y-orig.Y) > eps {
		t.Errorf("expected Y=%f after round trip, got %f", orig.Y, back.Y)
	}
}

func TestFitInContainer_WidthLimited(t *testing.T) {
	a := DefaultArena()
	dims := a.FitInContainer(840, 1000)

	if dims.Width != 800 {
		t.Errorf("expected width=800, got %f", dims.Width)
	}
	if dims.Height != 400 {
		t.Errorf("expected height=400, got %f", dims.Height)
	}
	if dims.OffsetX != 20 {
		t.Errorf("expected offsetX=20, got %f", dims.OffsetX)
	}
}

func TestFitInContainer_HeightLimited(t *testing.T) {
	a := DefaultArena()
	dims := a.FitInContainer(2000, 270)

	// available height = 270 - 40 - 30 = 200
	if dims.Height != 200 {
		t.Errorf("expected height=200, got %f", dims.Height)
	}
	if dims.Width != 400 {
		t.Errorf("expected width=400, got %f", dims.Width)
	}
}

func TestFitInContainer_KeepsAspectRatio(t *testing.T) {
	a := DefaultArena()
	dims := a.FitInContainer(640, 480)

	if dims.Height == 0 {
		t.Fatal("expected non-zero height")
	}
	ratio := dims.Width / dims.Height
	if math.Abs(ratio-2.0) > eps {
		t.Errorf("expected aspect ratio 2.0, got %f", ratio)
	}
}

func TestRotateAround_QuarterTurn(t *testing.T) {
	got := Point{X: 1, Y: 0}.RotateAround(Point{}, math.Pi/2)

	if math.Abs(got.X) > eps {
		t.Errorf("expected X=0, got %f", got.X)
	}
	if math.Abs(got.Y-1) > eps {
		t.Errorf("expected Y=1, got %f", got.Y)
	}
}

func TestScaleAround_DoublesDistance(t *testing.T) {
	center := Point{X: 2, Y: 2}
	got := Point{X: 4, Y: 2}.ScaleAround(center, 2)

	if math.Abs(got.X-6) > eps {
		t.Errorf("expected X=6, got %f", got.X)
	}
	if math.Abs(got.Y-2) > eps {
		t.Errorf("expected Y=2, got %f", got.Y)
	}
}

func TestNormalizeAngle_WrapsPositive(t *testing.T) {
	got := NormalizeAngle(3 * math.Pi)
	if math.Abs(got-math.Pi) > eps {
		t.Errorf("expected pi, got %f", got)
	}
}

func TestAngleDiff_TakesShortestPath(t *testing.T) {
	// from 350 degrees to 10 degrees should be +20, not -340
	from := 350 * math.Pi / 180
	to := 10 * math.Pi / 180

	got := AngleDiff(from, to)
	want := 20 * math.Pi / 180
	if math.Abs(got-want) > eps {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestLerpAngle_AcrossWraparound(t *testing.T) {
	from := 170 * math.Pi / 180
	to := -170 * math.Pi / 180

	got := LerpAngle(from, to, 0.5)
	want := math.Pi // halfway across the seam
	if math.Abs(math.Abs(got)-want) > eps {
		t.Errorf("expected ±pi, got %f", got)
	}
}

func TestMinimalEnclosingCircle_Empty(t *testing.T) {
	c := MinimalEnclosingCircle(nil)

	if c.Radius != 0 {
		t.Errorf("expected radius 0, got %f", c.Radius)
	}
	if c.Center.X != 0 || c.Center.Y != 0 {
		t.Errorf("expected origin center, got %+v", c.Center)
	}
}

func TestMinimalEnclosingCircle_SinglePoint(t *testing.T) {
	c := MinimalEnclosingCircle([]Point{{X: 3, Y: 4}})

	if c.Radius != 0 {
		t.Errorf("expected radius 0, got %f", c.Radius)
	}
	if c.Center.X != 3 || c.Center.Y != 4 {
		t.Errorf("expected center (3,4), got %+v", c.Center)
	}
}

func TestMinimalEnclosingCircle_AllCoincident(t *testing.T) {
	p := Point{X: -5, Y: 2}
	c := MinimalEnclosingCircle([]Point{p, p, p, p})

	if c.Radius > eps {
		t.Errorf("expected radius 0, got %f", c.Radius)
	}
	if c.Center != p {
		t.Errorf("expected center %+v, got %+v", p, c.Center)
	}
}

func TestMinimalEnclosingCircle_TwoPoints(t *testing.T) {
	c := MinimalEnclosingCircle([]Point{{X: -1, Y: 0}, {X: 1, Y: 0}})

	if math.Abs(c.Radius-1) > eps {
		t.Errorf("expected radius 1, got %f", c.Radius)
	}
	if math.Abs(c.Center.X) > eps || math.Abs(c.Center.Y) > eps {
		t.Errorf("expected origin center, got %+v", c.Center)
	}
}

func TestMinimalEnclosingCircle_CollinearPoints(t *testing.T) {
	c := MinimalEnclosingCircle([]Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}})

	if math.Abs(c.Radius-5) > eps {
		t.Errorf("expected radius 5, got %f", c.Radius)
	}
	if math.Abs(c.Center.X-5) > eps || math.Abs(c.Center.Y) > eps {
		t.Errorf("expected center (5,0), got %+v", c.Center)
	}
}

func TestMinimalEnclosingCircle_ContainsAllPoints(t *testing.T) {
	points := []Point{
		{X: 0, Y: 0}, {X: 10, Y: 2}, {X: 4, Y: -7},
		{X: -3, Y: 5}, {X: 6, Y: 6}, {X: -8, Y: -1},
	}
	c := MinimalEnclosingCircle(points)

	for i, p := range points {
		if !c.Contains(p) {
			t.Errorf("point %d (%+v) outside circle %+v", i, p, c)
		}
	}
}

func TestMinimalEnclosingCircle_EquilateralTriangle(t *testing.T) {
	// Equilateral triangle with circumradius 1
	points := []Point{
		{X: 1, Y: 0},
		{X: math.Cos(2 * math.Pi / 3), Y: math.Sin(2 * math.Pi / 3)},
		{X: math.Cos(4 * math.Pi / 3), Y: math.Sin(4 * math.Pi / 3)},
	}
	c := MinimalEnclosingCircle(points)

	if math.Abs(c.Radius-1) > 1e-6 {
		t.Errorf("expected radius 1, got %f", c.Radius)
	}
	if math.Abs(c.Center.X) > 1e-6 || math.Abs(c.Center.Y) > 1e-6 {
		t.Errorf("expected origin center, got %+v", c.Center)
	}
}

func TestMinimalEnclosingCircle_InteriorPointIgnored(t *testing.T) {
	// The interior point must not change the circle spanned by the square.
	square := []Point{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	withInterior := append(append([]Point{}, square...), Point{X: 0.1, Y: 0.2})

	c1 := MinimalEnclosingCircle(square)
	c2 := MinimalEnclosingCircle(withInterior)

	if math.Abs(c1.Radius-c2.Radius) > 1e-9 {
		t.Errorf("interior point changed radius: %f vs %f", c1.Radius, c2.Radius)
	}
}
