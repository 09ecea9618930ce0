package geometry

// Standard competition arena dimensions in meters. The drawable keeps a
// fixed length:width ratio of 2:1 regardless of container size.
const (
	DefaultArenaLength = 80.0
	DefaultArenaWidth  = 40.0

	// arenaPadding is the symmetric margin around the drawn arena inside
	// its container, in pixels.
	arenaPadding = 20.0

	// captionReserve is extra vertical space below the arena kept free for
	// the frame caption label, in pixels.
	captionReserve = 30.0
)

// Arena describes the physical riding surface. X spans [-Length/2, +Length/2]
// and Y spans [-Width/2, +Width/2].
type Arena struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// DefaultArena returns the standard 80x40 m arena.
func DefaultArena() Arena {
	return Arena{Length: DefaultArenaLength, Width: DefaultArenaWidth}
}

// ArenaDimensions is the pixel rectangle an arena occupies inside a
// container, as computed by FitInContainer.
type ArenaDimensions struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// PointToCanvas maps an arena-space point to canvas pixels. Coordinates are
// clamped to the canvas bounds, so a horse placed outside the arena renders
// stuck to the edge.
func (a Arena) PointToCanvas(p Point, canvasWidth, canvasHeight float64) Point {
	nx := p.X/a.Length + 0.5
	ny := p.Y/a.Width + 0.5
	return Point{
		X: Clamp(nx*canvasWidth, 0, canvasWidth),
		Y: Clamp(ny*canvasHeight, 0, canvasHeight),
	}
}

// CanvasToPoint maps canvas pixels back to arena meters. The normalized
// coordinate is clamped to [0, 1] before conversion, so an off-canvas drag
// lands exactly on the arena boundary, never beyond it.
func (a Arena) CanvasToPoint(x, y, canvasWidth, canvasHeight float64) Point {
	nx := Clamp(x/canvasWidth, 0, 1)
	ny := Clamp(y/canvasHeight, 0, 1)
	return Point{
		X: (nx - 0.5) * a.Length,
		Y: (ny - 0.5) * a.Width,
	}
}

// FitInContainer fits the arena's aspect ratio inside a container with
// symmetric padding, reserving vertical room for the caption label, and
// centers the result.
func (a Arena) FitInContainer(containerWidth, containerHeight float64) ArenaDimensions {
	availW := containerWidth - 2*arenaPadding
	availH := containerHeight - 2*arenaPadding - captionReserve
	if availW < 0 {
		availW = 0
	}
	if availH < 0 {
		availH = 0
	}

	ratio := a.Length / a.Width

	w := availW
	h := w / ratio
	if h > availH {
		h = availH
		w = h * ratio
	}

	return ArenaDimensions{
		Width:   w,
		Height:  h,
		OffsetX: (containerWidth - w) / 2,
		OffsetY: (containerHeight - captionReserve - h) / 2,
	}
}
