package convert

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/model"
)

// stringsToJSON converts a []string to datatypes.JSON for DB storage.
func stringsToJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

// mapToJSON converts a string map to datatypes.JSON for DB storage.
func mapToJSON(values map[string]string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

// DrillToRecord converts a drill document to a GORM DrillRecord with nested
// frame and horse records, ready for a single Create with associations.
func DrillToRecord(d drill.Drill) model.DrillRecord {
	subPatterns := datatypes.JSON("[]")
	if len(d.SubPatterns) > 0 {
		data, _ := json.Marshal(d.SubPatterns)
		subPatterns = datatypes.JSON(data)
	}

	rec := model.DrillRecord{
		DrillID:     d.ID,
		Name:        d.Name,
		Metadata:    mapToJSON(d.Metadata),
		RiderNames:  stringsToJSON(d.RiderNames),
		AudioTrack:  d.AudioTrack,
		SubPatterns: subPatterns,
		Frames:      make([]model.FrameRecord, 0, len(d.Frames)),
	}

	for i, f := range d.Frames {
		rec.Frames = append(rec.Frames, FrameToRecord(i, f))
	}

	return rec
}

// FrameToRecord converts a single frame to a FrameRecord at the given
// routine position.
func FrameToRecord(ordinal int, f drill.Frame) model.FrameRecord {
	fr := model.FrameRecord{
		FrameID:      f.ID,
		Ordinal:      ordinal,
		Timestamp:    f.Timestamp,
		Duration:     f.Duration,
		IsKeyFrame:   f.IsKeyFrame,
		ManeuverName: f.ManeuverName,
		Horses:       make([]model.HorseRecord, 0, len(f.Horses)),
	}
	for _, h := range f.Horses {
		fr.Horses = append(fr.Horses, model.HorseRecord{
			HorseID:      h.ID,
			Label:        h.Label,
			Position:     pointFromPosition(h.Position),
			Direction:    h.Direction,
			Gait:         h.Speed.String(),
			Locked:       h.Locked,
			SubPatternID: h.SubPatternID,
		})
	}
	return fr
}
