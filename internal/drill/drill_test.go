package drill

import (
	"math"
	"testing"

	"github.com/equidrill/drillbook/internal/geometry"
)

func makeFrame(duration float64) Frame {
	return Frame{ID: "f" + uuidLike(), Duration: duration}
}

var uuidCounter int

func uuidLike() string {
	uuidCounter++
	return string(rune('a' + uuidCounter%26))
}

func TestNew_SeedsOneFrame(t *testing.T) {
	d := New("Test Drill")

	if len(d.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(d.Frames))
	}
	if d.Frames[0].Timestamp != 0 {
		t.Errorf("expected timestamp 0, got %f", d.Frames[0].Timestamp)
	}
	if d.Frames[0].Duration != DefaultFrameDuration {
		t.Errorf("expected default duration, got %f", d.Frames[0].Duration)
	}
}

func TestRecomputeTimestamps_CumulativeDurations(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(2), makeFrame(3.5), makeFrame(1)}}
	d.RecomputeTimestamps()

	want := []float64{0, 2, 5.5}
	for i, w := range want {
		if d.Frames[i].Timestamp != w {
			t.Errorf("frame %d: expected timestamp %f, got %f", i, w, d.Frames[i].Timestamp)
		}
		if d.Frames[i].Index != i {
			t.Errorf("frame %d: expected index %d, got %d", i, i, d.Frames[i].Index)
		}
	}
}

func TestInsertFrame_AtFront(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(5)}}
	d.RecomputeTimestamps()

	d.InsertFrame(0, makeFrame(5))

	if len(d.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(d.Frames))
	}
	if d.Frames[0].Timestamp != 0 {
		t.Errorf("expected new frame timestamp 0, got %f", d.Frames[0].Timestamp)
	}
	if d.Frames[1].Timestamp != 5.0 {
		t.Errorf("expected pushed frame timestamp 5.0, got %f", d.Frames[1].Timestamp)
	}
}

func TestRemoveFrame_RecomputesTimestamps(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(2), makeFrame(3), makeFrame(4)}}
	d.RecomputeTimestamps()

	d.RemoveFrame(1)

	if len(d.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(d.Frames))
	}
	if d.Frames[1].Timestamp != 2 {
		t.Errorf("expected timestamp 2 after removal, got %f", d.Frames[1].Timestamp)
	}
}

func TestRemoveFrame_OutOfRangeIsNoOp(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(2)}}
	d.RecomputeTimestamps()

	d.RemoveFrame(5)
	d.RemoveFrame(-1)

	if len(d.Frames) != 1 {
		t.Errorf("expected 1 frame, got %d", len(d.Frames))
	}
}

func TestMoveFrame_ReordersAndRecomputes(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(1), makeFrame(2), makeFrame(3)}}
	d.RecomputeTimestamps()

	d.MoveFrame(2, 0)

	if d.Frames[0].Duration != 3 {
		t.Errorf("expected moved frame first, got duration %f", d.Frames[0].Duration)
	}
	if d.Frames[0].Timestamp != 0 {
		t.Errorf("expected timestamp 0, got %f", d.Frames[0].Timestamp)
	}
	if d.Frames[2].Timestamp != 4 {
		t.Errorf("expected last timestamp 4, got %f", d.Frames[2].Timestamp)
	}
}

func TestDuplicateFrame_CopiesHorsesByValue(t *testing.T) {
	d := Drill{Frames: []Frame{{
		ID:       "f1",
		Duration: 5,
		Horses:   []Horse{NewHorse("A", geometry.Point{X: 1, Y: 2})},
	}}}
	d.RecomputeTimestamps()

	d.DuplicateFrame(0)

	if len(d.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(d.Frames))
	}
	if d.Frames[1].ID == d.Frames[0].ID {
		t.Error("expected duplicated frame to get a fresh ID")
	}

	// Mutating the copy must not touch the original.
	d.Frames[1].Horses[0].Position.X = 99
	if d.Frames[0].Horses[0].Position.X != 1 {
		t.Error("duplicated frame shares horse storage with the original")
	}
}

func TestSetFrameDuration_PropagatesToLaterTimestamps(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(5), makeFrame(5), makeFrame(5)}}
	d.RecomputeTimestamps()

	d.SetFrameDuration(0, 2)

	if d.Frames[1].Timestamp != 2 {
		t.Errorf("expected timestamp 2, got %f", d.Frames[1].Timestamp)
	}
	if d.Frames[2].Timestamp != 7 {
		t.Errorf("expected timestamp 7, got %f", d.Frames[2].Timestamp)
	}
}

func TestClone_IsDeep(t *testing.T) {
	d := Drill{
		Name:       "original",
		Metadata:   map[string]string{"venue": "indoor"},
		RiderNames: []string{"Avery"},
		Frames: []Frame{{
			ID:     "f1",
			Horses: []Horse{NewHorse("A", geometry.Point{X: 1, Y: 1})},
		}},
		SubPatterns: []SubPattern{{ID: "sp1", HorseIDs: []string{"h1"}}},
	}

	c := d.Clone()
	c.Frames[0].Horses[0].Position.X = 42
	c.Metadata["venue"] = "outdoor"
	c.RiderNames[0] = "Briar"
	c.SubPatterns[0].HorseIDs[0] = "other"

	if d.Frames[0].Horses[0].Position.X != 1 {
		t.Error("clone shares horse storage")
	}
	if d.Metadata["venue"] != "indoor" {
		t.Error("clone shares metadata map")
	}
	if d.RiderNames[0] != "Avery" {
		t.Error("clone shares rider names")
	}
	if d.SubPatterns[0].HorseIDs[0] != "h1" {
		t.Error("clone shares sub-pattern horse IDs")
	}
}

func TestTotalDuration_SumsAllFrames(t *testing.T) {
	d := Drill{Frames: []Frame{makeFrame(2), makeFrame(3)}}
	d.RecomputeTimestamps()

	if d.TotalDuration() != 5 {
		t.Errorf("expected 5, got %f", d.TotalDuration())
	}
}

func TestInferredDuration_SlowestHorseSetsPace(t *testing.T) {
	from := Frame{Horses: []Horse{
		{ID: "1", Label: "A", Position: geometry.Point{X: 0, Y: 0}},
		{ID: "2", Label: "B", Position: geometry.Point{X: 0, Y: 0}},
	}}
	from.Horses[0].Speed = 0 // walk
	from.Horses[1].Speed = 2 // canter
	to := Frame{Horses: []Horse{
		{ID: "3", Label: "A", Position: geometry.Point{X: 17, Y: 0}},
		{ID: "4", Label: "B", Position: geometry.Point{X: 17, Y: 0}},
	}}

	got := InferredDuration(from, to)

	// the walking horse needs 17 / 1.7 = 10 seconds
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10, got %f", got)
	}
}

func TestInferredDuration_NoMatchedHorses(t *testing.T) {
	from := Frame{Horses: []Horse{{Label: "A"}}}
	to := Frame{Horses: []Horse{{Label: "B"}}}

	if InferredDuration(from, to) != 0 {
		t.Error("expected 0 for unmatched horses")
	}
}
