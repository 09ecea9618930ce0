// Package georef anchors the arena on the globe and converts arena-meter
// positions into WGS84 coordinates, so a drill can be exported as GPS
// tracks and ridden outdoors against a phone's position.
package georef

import (
	"math"

	"github.com/wroge/wgs84"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/geometry"
)

// Projector maps arena coordinates (meters, origin at the arena center) to
// geographic coordinates. The arena is placed flat on the Web Mercator
// plane at the configured origin: meter offsets are rotated by the heading,
// scaled by the Mercator distortion at the origin latitude, and transformed
// back to EPSG:4326.
type Projector struct {
	originX float64 // EPSG:3857
	originY float64
	scale   float64 // mercator meters per ground meter at the origin latitude
	sinH    float64
	cosH    float64

	inverse wgs84.Func // 3857 -> 4326
}

// NewProjector builds a projector for the configured arena anchor.
func NewProjector(cfg config.GeoRefConfig) *Projector {
	epsg := wgs84.EPSG()
	forward := epsg.Transform(4326, 3857)

	p := &Projector{inverse: epsg.Transform(3857, 4326)}
	p.originX, p.originY, _ = forward(cfg.OriginLon, cfg.OriginLat, 0)
	p.scale = 1 / math.Cos(cfg.OriginLat*math.Pi/180)

	// HeadingDeg rotates the arena's +x axis clockwise from true east.
	rad := cfg.HeadingDeg * math.Pi / 180
	p.sinH = math.Sin(rad)
	p.cosH = math.Cos(rad)
	return p
}

// ToLonLat converts an arena position to longitude and latitude.
func (p *Projector) ToLonLat(pt geometry.Point) (lon, lat float64) {
	east := pt.X*p.cosH + pt.Y*p.sinH
	north := -pt.X*p.sinH + pt.Y*p.cosH

	x := p.originX + east*p.scale
	y := p.originY + north*p.scale

	lon, lat, _ = p.inverse(x, y, 0)
	return lon, lat
}
