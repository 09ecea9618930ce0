package georef

import (
	"encoding/json"
	"fmt"
	"sort"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/equidrill/drillbook/internal/drill"
)

// Track is one rider's path through the routine: the horse's keyframe
// positions in frame order, matched across frames by label.
type Track struct {
	Label  string
	Points []TrackPoint
}

// TrackPoint is one keyframe position with its derived timestamp.
type TrackPoint struct {
	Lon, Lat float64
	Seconds  float64
}

// Tracks extracts one track per rider label, in label order. Riders absent
// from a frame simply skip it; a rider seen in fewer than two frames has no
// path and is dropped.
func Tracks(d drill.Drill, p *Projector) []Track {
	byLabel := make(map[string][]TrackPoint)
	for i := range d.Frames {
		f := &d.Frames[i]
		for j := range f.Horses {
			h := &f.Horses[j]
			lon, lat := p.ToLonLat(h.Position)
			byLabel[h.Label] = append(byLabel[h.Label], TrackPoint{
				Lon:     lon,
				Lat:     lat,
				Seconds: f.Timestamp,
			})
		}
	}

	labels := make([]string, 0, len(byLabel))
	for label, pts := range byLabel {
		if len(pts) >= 2 {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	tracks := make([]Track, len(labels))
	for i, label := range labels {
		tracks[i] = Track{Label: label, Points: byLabel[label]}
	}
	return tracks
}

// LineString renders the track as an EPSG:4326 linestring.
func (t Track) LineString() geom.LineString {
	flat := make([]float64, 0, len(t.Points)*2)
	for _, pt := range t.Points {
		flat = append(flat, pt.Lon, pt.Lat)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

// ExportGeoJSON renders the drill as a GeoJSON FeatureCollection with one
// linestring feature per rider. Timestamps ride along as a per-feature
// property so a consumer can animate the tracks.
func ExportGeoJSON(d drill.Drill, p *Projector) ([]byte, error) {
	tracks := Tracks(d, p)

	fc := make(geom.GeoJSONFeatureCollection, len(tracks))
	for i, t := range tracks {
		times := make([]float64, len(t.Points))
		for j, pt := range t.Points {
			times[j] = pt.Seconds
		}
		fc[i] = geom.GeoJSONFeature{
			Geometry: t.LineString().AsGeometry(),
			Properties: map[string]any{
				"label": t.Label,
				"times": times,
			},
		}
	}

	out, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshaling feature collection: %w", err)
	}
	return out, nil
}
