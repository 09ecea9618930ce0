package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
)

var demoRiders int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Save a sample drill to the storage backend",
	Long: `Generate and save a small sample drill: riders enter abreast, open
into a circle at trot, and reform the line at the far end of the arena.
Useful for trying out the server and export commands without hand-building
a routine first.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoRiders, "riders", 4, "Number of riders in the sample drill")
}

func runDemo(cmd *cobra.Command, args []string) error {
	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	d := buildDemoDrill(demoRiders)
	if err := backend.SaveDrill(&d); err != nil {
		return fmt.Errorf("failed to save demo drill: %w", err)
	}

	summary := d.Summarize()
	fmt.Printf("Saved demo drill %s (%d frames, %.1fs)\n", d.ID, summary.Frames, summary.Duration)
	fmt.Printf("Try: drillbook export %s --format geojson\n", d.ID)
	return nil
}

// buildDemoDrill lays out a three-figure routine on the standard arena:
// entry line at x=10, a 12m circle around the arena center, and an exit
// line at x=70. Transition durations come from the slowest rider.
func buildDemoDrill(riders int) drill.Drill {
	if riders < 1 {
		riders = 1
	}

	d := drill.New("Demo Quadrille")

	// Entry: line abreast, evenly spread across the arena width.
	entry := d.Frame(0)
	spacing := 40.0 / float64(riders+1)
	for i := 0; i < riders; i++ {
		h := drill.NewHorse(fmt.Sprintf("Rider %d", i+1), geometry.Point{
			X: 10,
			Y: spacing * float64(i+1),
		})
		entry.Horses = append(entry.Horses, h)
	}

	// Circle figure at trot around the arena center.
	d.DuplicateFrame(0)
	circle := d.Frame(1)
	center := geometry.Point{X: 40, Y: 20}
	for i := range circle.Horses {
		angle := 2 * math.Pi * float64(i) / float64(riders)
		circle.Horses[i].Position = geometry.Point{
			X: center.X + 12*math.Cos(angle),
			Y: center.Y + 12*math.Sin(angle),
		}
		circle.Horses[i].Direction = angle + math.Pi/2
		circle.Horses[i].Speed = gait.Trot
	}

	// Exit: reform the line at the far end.
	d.DuplicateFrame(1)
	exit := d.Frame(2)
	for i := range exit.Horses {
		exit.Horses[i].Position = geometry.Point{
			X: 70,
			Y: spacing * float64(i+1),
		}
		exit.Horses[i].Direction = 0
		exit.Horses[i].Speed = gait.Walk
	}

	for i := 0; i < len(d.Frames)-1; i++ {
		d.SetFrameDuration(i, drill.InferredDuration(d.Frames[i], d.Frames[i+1]))
	}
	d.RecomputeTimestamps()
	return d
}
