// Package model defines the GORM persistence records for drills. The editor
// works on the drill package's value types; these records exist only at the
// storage boundary and are produced/consumed by the convert package.
//
// Horse positions are stored as 2D geometry points in WKB so the same column
// works on Postgres (PostGIS-aware) and SQLite (opaque blob, parsed via the
// type's inherent Scan).
package model

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema, in migration order.
var DatabaseModels = []interface{}{
	&DrillRecord{},
	&FrameRecord{},
	&HorseRecord{},
}

// DrillRecord is the root row for one saved drill. Scalar document fields
// live in columns; list-shaped metadata (rider roster, sub-patterns, free
// metadata) is stored as JSON since nothing queries into it.
type DrillRecord struct {
	gorm.Model
	DrillID     string         `json:"drillId" gorm:"size:36;uniqueIndex:idx_drill_id"`
	Name        string         `json:"name" gorm:"size:255"`
	Metadata    datatypes.JSON `json:"metadata"`
	RiderNames  datatypes.JSON `json:"riderNames"`
	AudioTrack  string         `json:"audioTrack" gorm:"size:512"`
	SubPatterns datatypes.JSON `json:"subPatterns"`
	Frames      []FrameRecord  `json:"frames" gorm:"foreignKey:DrillRecordID;constraint:OnDelete:CASCADE"`
}

func (DrillRecord) TableName() string {
	return "drills"
}

// FrameRecord is one keyframe of a drill. Ordinal is the frame's position in
// the routine; Timestamp is derived from the duration sequence but persisted
// anyway so readers (web viewer, exports) don't have to re-derive it.
type FrameRecord struct {
	gorm.Model
	DrillRecordID uint          `json:"-" gorm:"index:idx_frame_drill"`
	FrameID       string        `json:"frameId" gorm:"size:36"`
	Ordinal       int           `json:"ordinal"`
	Timestamp     float64       `json:"timestamp"`
	Duration      float64       `json:"duration"`
	IsKeyFrame    bool          `json:"isKeyFrame"`
	ManeuverName  string        `json:"maneuverName" gorm:"size:255"`
	Horses        []HorseRecord `json:"horses" gorm:"foreignKey:FrameRecordID;constraint:OnDelete:CASCADE"`
}

func (FrameRecord) TableName() string {
	return "frames"
}

// HorseRecord is one horse/rider placement within a frame. Direction is
// radians from the arena +x axis, counter-clockwise. Gait is the lowercase
// gait name ("walk", "trot", "canter").
type HorseRecord struct {
	gorm.Model
	FrameRecordID uint       `json:"-" gorm:"index:idx_horse_frame"`
	HorseID       string     `json:"horseId" gorm:"size:36"`
	Label         string     `json:"label" gorm:"size:64"`
	Position      geom.Point `json:"position"`
	Direction     float64    `json:"direction"`
	Gait          string     `json:"gait" gorm:"size:16"`
	Locked        bool       `json:"locked"`
	SubPatternID  string     `json:"subPatternId" gorm:"size:36"`
}

func (HorseRecord) TableName() string {
	return "horses"
}
