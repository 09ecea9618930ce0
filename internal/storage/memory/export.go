// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/equidrill/drillbook/internal/drill"
)

// DrillExport is the root JSON structure written by ExportDrill. Riders carry
// a flattened per-frame track for playback tools; Document is the full drill
// so the file can be re-imported losslessly.
type DrillExport struct {
	FormatVersion int         `json:"formatVersion"`
	DrillID       string      `json:"drillId"`
	Name          string      `json:"name"`
	ExportedAt    time.Time   `json:"exportedAt"`
	TotalDuration float64     `json:"totalDuration"`
	FrameCount    int         `json:"frameCount"`
	Riders        []RiderJSON `json:"riders"`
	Document      drill.Drill `json:"document"`
}

// RiderJSON is one horse/rider track across the routine.
// Each track entry is [timestamp, [x, y], direction, gait].
type RiderJSON struct {
	Label string  `json:"label"`
	Track [][]any `json:"track"`
}

// ExportDrill writes the drill to a JSON file in the configured output
// directory and returns the path. Satisfies storage.Exportable.
func (b *Backend) ExportDrill(id string) (string, error) {
	d, err := b.LoadDrill(id)
	if err != nil {
		return "", err
	}

	export := buildExport(*d)

	// Build filename
	name := strings.ReplaceAll(d.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	timestamp := time.Now().Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return "", err
		}
	}

	b.mu.Lock()
	b.lastExportPath = outputPath
	b.mu.Unlock()

	return outputPath, nil
}

func buildExport(d drill.Drill) DrillExport {
	export := DrillExport{
		FormatVersion: 1,
		DrillID:       d.ID,
		Name:          d.Name,
		ExportedAt:    time.Now().UTC(),
		TotalDuration: d.TotalDuration(),
		FrameCount:    len(d.Frames),
		Riders:        make([]RiderJSON, 0),
		Document:      d,
	}

	// Collect labels in first-appearance order so the rider list is stable.
	var labels []string
	seen := make(map[string]bool)
	for _, f := range d.Frames {
		for _, h := range f.Horses {
			if !seen[h.Label] {
				seen[h.Label] = true
				labels = append(labels, h.Label)
			}
		}
	}

	for _, label := range labels {
		rider := RiderJSON{
			Label: label,
			Track: make([][]any, 0, len(d.Frames)),
		}
		for i := range d.Frames {
			f := &d.Frames[i]
			h := f.HorseByLabel(label)
			if h == nil {
				continue
			}
			rider.Track = append(rider.Track, []any{
				f.Timestamp,
				[]float64{h.Position.X, h.Position.Y},
				h.Direction,
				h.Speed.String(),
			})
		}
		export.Riders = append(export.Riders, rider)
	}

	return export
}

func writeJSON(path string, data DrillExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data DrillExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
