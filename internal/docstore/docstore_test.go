package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/history"
)

func TestStore_GetReturnsIndependentCopy(t *testing.T) {
	s := NewStore()

	d := s.Get()
	d.Frames[0].Horses = append(d.Frames[0].Horses, drill.NewHorse("A", geometry.Point{X: 1, Y: 1}))

	assert.Empty(t, s.Get().Frames[0].Horses, "mutating a Get copy must not reach the store")
}

func TestStore_SetClearsHistoryByDefault(t *testing.T) {
	s := NewStore()
	s.History().Push(history.NewEntry("move", func() {}, func() {}))
	require.True(t, s.History().CanUndo())

	s.Set(drill.New("Loaded"), SetOptions{})

	assert.False(t, s.History().CanUndo(), "loading a document must clear history")
	assert.Equal(t, "Loaded", s.Get().Name)
}

func TestStore_SetSkipHistoryClearKeepsHistory(t *testing.T) {
	s := NewStore()
	s.History().Push(history.NewEntry("move", func() {}, func() {}))

	d := s.Get()
	d.Name = "edited"
	s.Set(d, SetOptions{SkipHistoryClear: true})

	assert.True(t, s.History().CanUndo())
	assert.Equal(t, "edited", s.Get().Name)
}

func TestStore_SetRecomputesTimestamps(t *testing.T) {
	s := NewStore()

	d := drill.New("timing")
	d.InsertFrame(1, drill.Frame{ID: "f2", Duration: 3})
	d.Frames[0].Duration = 2
	// deliberately stale timestamps
	d.Frames[1].Timestamp = 99
	s.Set(d, SetOptions{})

	got := s.Get()
	assert.Equal(t, 0.0, got.Frames[0].Timestamp)
	assert.Equal(t, 2.0, got.Frames[1].Timestamp)
}

func TestStore_FrameIndexResetAndPreserve(t *testing.T) {
	s := NewStore()
	d := s.Get()
	d.InsertFrame(1, drill.Frame{ID: "f2", Duration: 5})
	d.InsertFrame(2, drill.Frame{ID: "f3", Duration: 5})
	s.Set(d, SetOptions{})
	s.SetFrameIndex(2)

	s.Set(d, SetOptions{SkipHistoryClear: true, PreserveFrameIndex: true})
	assert.Equal(t, 2, s.FrameIndex())

	s.Set(d, SetOptions{SkipHistoryClear: true})
	assert.Equal(t, 0, s.FrameIndex())
}

func TestStore_PreserveFrameIndexClampsToNewLength(t *testing.T) {
	s := NewStore()
	d := s.Get()
	d.InsertFrame(1, drill.Frame{ID: "f2", Duration: 5})
	d.InsertFrame(2, drill.Frame{ID: "f3", Duration: 5})
	s.Set(d, SetOptions{})
	s.SetFrameIndex(2)

	shorter := s.Get()
	shorter.RemoveFrame(2)
	shorter.RemoveFrame(1)
	s.Set(shorter, SetOptions{SkipHistoryClear: true, PreserveFrameIndex: true})

	assert.Equal(t, 0, s.FrameIndex())
}

func TestStore_CurrentFrameCopies(t *testing.T) {
	s := NewStore()
	d := s.Get()
	d.Frames[0].Horses = []drill.Horse{drill.NewHorse("A", geometry.Point{X: 1, Y: 2})}
	s.Set(d, SetOptions{SkipHistoryClear: true})

	f := s.CurrentFrame()
	require.NotNil(t, f)
	f.Horses[0].Position.X = 77

	assert.Equal(t, 1.0, s.Get().Frames[0].Horses[0].Position.X)
}

func TestStore_SetFrameIndexClamps(t *testing.T) {
	s := NewStore()

	s.SetFrameIndex(10)
	assert.Equal(t, 0, s.FrameIndex())

	s.SetFrameIndex(-3)
	assert.Equal(t, 0, s.FrameIndex())
}
