// Package convert provides functions to convert between GORM records and
// drill document models.
package convert

import (
	"encoding/json"
	"sort"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/model"
)

// pointFromPosition converts an arena position to a 2D geom.Point.
func pointFromPosition(p geometry.Point) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}}
	return geom.NewPoint(coords)
}

// positionFromPoint converts a geom.Point back to an arena position.
// Empty points map to the arena origin.
func positionFromPoint(p geom.Point) geometry.Point {
	coord, ok := p.Coordinates()
	if !ok {
		return geometry.Point{}
	}
	return geometry.Point{X: coord.XY.X, Y: coord.XY.Y}
}

// RecordToDrill converts a DrillRecord (with its frames and horses loaded)
// back to a drill document. Frames are ordered by their persisted ordinal and
// timestamps are re-derived from the duration sequence, so a row set written
// by an older version with stale timestamps still loads consistently.
func RecordToDrill(rec model.DrillRecord) (drill.Drill, error) {
	d := drill.Drill{
		ID:         rec.DrillID,
		Name:       rec.Name,
		AudioTrack: rec.AudioTrack,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}

	if len(rec.Metadata) > 0 {
		if err := json.Unmarshal(rec.Metadata, &d.Metadata); err != nil {
			return drill.Drill{}, err
		}
	}
	if len(rec.RiderNames) > 0 {
		if err := json.Unmarshal(rec.RiderNames, &d.RiderNames); err != nil {
			return drill.Drill{}, err
		}
	}
	if len(rec.SubPatterns) > 0 {
		if err := json.Unmarshal(rec.SubPatterns, &d.SubPatterns); err != nil {
			return drill.Drill{}, err
		}
	}

	frames := make([]model.FrameRecord, len(rec.Frames))
	copy(frames, rec.Frames)
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Ordinal < frames[j].Ordinal
	})

	d.Frames = make([]drill.Frame, 0, len(frames))
	for _, fr := range frames {
		d.Frames = append(d.Frames, RecordToFrame(fr))
	}

	d.RecomputeTimestamps()
	return d, nil
}

// RecordToFrame converts a single FrameRecord to a drill frame.
func RecordToFrame(fr model.FrameRecord) drill.Frame {
	f := drill.Frame{
		ID:           fr.FrameID,
		Index:        fr.Ordinal,
		Timestamp:    fr.Timestamp,
		Duration:     fr.Duration,
		IsKeyFrame:   fr.IsKeyFrame,
		ManeuverName: fr.ManeuverName,
		Horses:       make([]drill.Horse, 0, len(fr.Horses)),
	}
	for _, hr := range fr.Horses {
		f.Horses = append(f.Horses, drill.Horse{
			ID:           hr.HorseID,
			Label:        hr.Label,
			Position:     positionFromPoint(hr.Position),
			Direction:    hr.Direction,
			Speed:        gait.Parse(hr.Gait),
			Locked:       hr.Locked,
			SubPatternID: hr.SubPatternID,
		})
	}
	return f
}
