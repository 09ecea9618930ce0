package georef

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
)

// meters per degree on the Web Mercator equator
const metersPerDegree = math.Pi * 6378137 / 180

func TestToLonLat_EquatorHeadingZero(t *testing.T) {
	p := NewProjector(config.GeoRefConfig{})

	lon, lat := p.ToLonLat(geometry.Point{X: 10, Y: 0})
	assert.InDelta(t, 10/metersPerDegree, lon, 1e-9, "10m east")
	assert.InDelta(t, 0, lat, 1e-9)

	lon, lat = p.ToLonLat(geometry.Point{X: 0, Y: 20})
	assert.InDelta(t, 0, lon, 1e-9)
	assert.InDelta(t, 20/metersPerDegree, lat, 1e-9, "20m north")
}

func TestToLonLat_HeadingRotates(t *testing.T) {
	p := NewProjector(config.GeoRefConfig{HeadingDeg: 90})

	// with the arena's +x axis turned 90 degrees clockwise from east,
	// +x points south
	lon, lat := p.ToLonLat(geometry.Point{X: 10, Y: 0})
	assert.InDelta(t, 0, lon, 1e-9)
	assert.InDelta(t, -10/metersPerDegree, lat, 1e-9)
}

func TestToLonLat_HighLatitude(t *testing.T) {
	cfg := config.GeoRefConfig{OriginLat: 51.5, OriginLon: -0.12}
	p := NewProjector(cfg)

	lon, lat := p.ToLonLat(geometry.Point{X: 10, Y: 0})

	// 10 ground meters east shrink by cos(lat) in longitude degrees
	wantDLon := 10 / (metersPerDegree * math.Cos(51.5*math.Pi/180))
	assert.InDelta(t, cfg.OriginLon+wantDLon, lon, 1e-8)
	assert.InDelta(t, cfg.OriginLat, lat, 1e-8)

	_, lat = p.ToLonLat(geometry.Point{X: 0, Y: 10})
	assert.InDelta(t, cfg.OriginLat+10/metersPerDegree, lat, 1e-8,
		"north offsets in latitude degrees are latitude independent")
}

func trackDrill() drill.Drill {
	d := drill.New("Test")
	d.Frames[0].Horses = []drill.Horse{
		drill.NewHorse("Anna", geometry.Point{X: 0, Y: 0}),
		drill.NewHorse("Bea", geometry.Point{X: 5, Y: 0}),
	}
	d.DuplicateFrame(0)
	d.Frames[1].Horses = []drill.Horse{
		drill.NewHorse("Anna", geometry.Point{X: 10, Y: 0}),
	}
	d.RecomputeTimestamps()
	return d
}

func TestTracks_MatchesByLabel(t *testing.T) {
	p := NewProjector(config.GeoRefConfig{})
	tracks := Tracks(trackDrill(), p)

	require.Len(t, tracks, 1, "Bea appears in only one frame and has no path")
	tr := tracks[0]
	assert.Equal(t, "Anna", tr.Label)
	require.Len(t, tr.Points, 2)
	assert.Equal(t, 0.0, tr.Points[0].Seconds)
	assert.Equal(t, drill.DefaultFrameDuration, tr.Points[1].Seconds)
	assert.InDelta(t, 10/metersPerDegree, tr.Points[1].Lon, 1e-9)
}

func TestExportGeoJSON(t *testing.T) {
	p := NewProjector(config.GeoRefConfig{})
	out, err := ExportGeoJSON(trackDrill(), p)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, "Anna", fc.Features[0].Properties["label"])
}
