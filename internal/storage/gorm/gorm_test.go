package gormstorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/database"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/logging"
)

// newTestBackend creates an initialized Backend on an in-memory SQLite DB.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	db, err := database.OpenSQLite("")
	require.NoError(t, err)

	b := New(Dependencies{
		DB:         db,
		LogManager: logging.NewSlogManager(),
	})
	require.NoError(t, b.Init())
	return b
}

func testDrill(id, name string) *drill.Drill {
	d := drill.Drill{
		ID:   id,
		Name: name,
		Frames: []drill.Frame{
			{
				ID:       id + "-f1",
				Duration: 5,
				Horses: []drill.Horse{
					{ID: id + "-h1", Label: "1", Position: geometry.Point{X: -20, Y: 10}, Direction: 0.5, Speed: gait.Trot},
					{ID: id + "-h2", Label: "2", Position: geometry.Point{X: 20, Y: -10}, Locked: true},
				},
			},
			{
				ID:       id + "-f2",
				Duration: 8,
				Horses: []drill.Horse{
					{ID: id + "-h3", Label: "1", Position: geometry.Point{X: 0, Y: 0}, Speed: gait.Canter},
				},
			},
		},
		RiderNames: []string{"Avery", "Blake"},
		Metadata:   map[string]string{"club": "Riverside"},
	}
	d.RecomputeTimestamps()
	return &d
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{LogManager: logging.NewSlogManager()})
	assert.Error(t, b.Init())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	d := testDrill("rt-1", "Round Trip")
	require.NoError(t, b.SaveDrill(d))

	got, err := b.LoadDrill("rt-1")
	require.NoError(t, err)

	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Name, got.Name)
	assert.Equal(t, d.Metadata, got.Metadata)
	assert.Equal(t, d.RiderNames, got.RiderNames)
	require.Len(t, got.Frames, 2)
	assert.Equal(t, d.Frames[0].Horses, got.Frames[0].Horses)
	assert.Equal(t, d.Frames[1].Horses, got.Frames[1].Horses)
	assert.Equal(t, 5.0, got.Frames[1].Timestamp)
}

func TestSaveDrill_UpsertReplacesFrames(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	d := testDrill("up-1", "Before")
	require.NoError(t, b.SaveDrill(d))

	d.Name = "After"
	d.RemoveFrame(1)
	require.NoError(t, b.SaveDrill(d))

	got, err := b.LoadDrill("up-1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Len(t, got.Frames, 1)

	// still exactly one listing row for the ID
	summaries, err := b.ListDrills()
	require.NoError(t, err)
	count := 0
	for _, s := range summaries {
		if s.ID == "up-1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSaveDrill_Nil(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	assert.Error(t, b.SaveDrill(nil))
}

func TestLoadDrill_NotFound(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	_, err := b.LoadDrill("missing")
	assert.ErrorIs(t, err, drill.ErrNotFound)
}

func TestListDrills_Summaries(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.SaveDrill(testDrill("ls-1", "First")))
	require.NoError(t, b.SaveDrill(testDrill("ls-2", "Second")))

	summaries, err := b.ListDrills()
	require.NoError(t, err)

	byID := make(map[string]int)
	for i, s := range summaries {
		byID[s.ID] = i
	}
	require.Contains(t, byID, "ls-1")
	require.Contains(t, byID, "ls-2")

	s := summaries[byID["ls-1"]]
	assert.Equal(t, "First", s.Name)
	assert.Equal(t, 2, s.Frames)
	assert.Equal(t, 13.0, s.Duration)
}

func TestDeleteDrill_RemovesDocument(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.SaveDrill(testDrill("del-1", "Doomed")))
	require.NoError(t, b.DeleteDrill("del-1"))

	_, err := b.LoadDrill("del-1")
	assert.ErrorIs(t, err, drill.ErrNotFound)
}

func TestDeleteDrill_UnknownIsNoOp(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	assert.NoError(t, b.DeleteDrill("never-existed"))
}
