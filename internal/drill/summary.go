package drill

import (
	"errors"
	"time"
)

// ErrNotFound is returned by storage backends when the requested drill does
// not exist.
var ErrNotFound = errors.New("drill not found")

// Summary is the listing row for a saved drill.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frames    int       `json:"frames"`
	Duration  float64   `json:"duration"` // seconds
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summarize builds the listing row for this drill.
func (d Drill) Summarize() Summary {
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		Frames:    len(d.Frames),
		Duration:  d.TotalDuration(),
		UpdatedAt: d.UpdatedAt,
	}
}
