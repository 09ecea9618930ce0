package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
)

func testDrill(id, name string) *drill.Drill {
	d := drill.Drill{
		ID:        id,
		Name:      name,
		UpdatedAt: time.Now().UTC(),
		Frames: []drill.Frame{
			{
				ID:       id + "-f1",
				Duration: 5,
				Horses: []drill.Horse{
					{ID: id + "-h1", Label: "1", Position: geometry.Point{X: -10, Y: 5}, Speed: gait.Walk},
					{ID: id + "-h2", Label: "2", Position: geometry.Point{X: 10, Y: -5}, Speed: gait.Trot},
				},
			},
			{
				ID:       id + "-f2",
				Duration: 10,
				Horses: []drill.Horse{
					{ID: id + "-h3", Label: "1", Position: geometry.Point{X: 0, Y: 0}, Direction: 1.2, Speed: gait.Canter},
				},
			},
		},
	}
	d.RecomputeTimestamps()
	return &d
}

func TestSaveLoad_ReturnsIndependentCopy(t *testing.T) {
	b := New(config.MemoryConfig{})
	require.NoError(t, b.Init())
	defer b.Close()

	d := testDrill("m-1", "Copies")
	require.NoError(t, b.SaveDrill(d))

	// mutating the editor's document must not reach the saved copy
	d.Frames[0].Horses[0].Position.X = 999

	got, err := b.LoadDrill("m-1")
	require.NoError(t, err)
	assert.Equal(t, -10.0, got.Frames[0].Horses[0].Position.X)

	// mutating a loaded copy must not reach the store
	got.Name = "changed"
	again, err := b.LoadDrill("m-1")
	require.NoError(t, err)
	assert.Equal(t, "Copies", again.Name)
}

func TestSaveDrill_RejectsEmptyID(t *testing.T) {
	b := New(config.MemoryConfig{})

	assert.Error(t, b.SaveDrill(nil))
	assert.Error(t, b.SaveDrill(&drill.Drill{}))
}

func TestLoadDrill_NotFound(t *testing.T) {
	b := New(config.MemoryConfig{})

	_, err := b.LoadDrill("missing")
	assert.ErrorIs(t, err, drill.ErrNotFound)
}

func TestListDrills_NewestFirst(t *testing.T) {
	b := New(config.MemoryConfig{})

	older := testDrill("m-old", "Older")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := testDrill("m-new", "Newer")

	require.NoError(t, b.SaveDrill(older))
	require.NoError(t, b.SaveDrill(newer))

	summaries, err := b.ListDrills()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "m-new", summaries[0].ID)
	assert.Equal(t, "m-old", summaries[1].ID)
	assert.Equal(t, 2, summaries[0].Frames)
	assert.Equal(t, 15.0, summaries[0].Duration)
}

func TestDeleteDrill(t *testing.T) {
	b := New(config.MemoryConfig{})

	require.NoError(t, b.SaveDrill(testDrill("m-del", "Doomed")))
	require.NoError(t, b.DeleteDrill("m-del"))

	_, err := b.LoadDrill("m-del")
	assert.ErrorIs(t, err, drill.ErrNotFound)

	// unknown IDs are a no-op
	assert.NoError(t, b.DeleteDrill("m-del"))
}

func TestExportDrill_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})

	d := testDrill("m-exp", "Serpentine Display")
	require.NoError(t, b.SaveDrill(d))

	path, err := b.ExportDrill("m-exp")
	require.NoError(t, err)
	assert.Equal(t, path, b.GetExportedFilePath())
	assert.True(t, strings.HasSuffix(path, ".json"))
	assert.Contains(t, filepath.Base(path), "Serpentine_Display")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export DrillExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, 1, export.FormatVersion)
	assert.Equal(t, "m-exp", export.DrillID)
	assert.Equal(t, 2, export.FrameCount)
	assert.Equal(t, 15.0, export.TotalDuration)
	require.Len(t, export.Riders, 2)
	assert.Equal(t, "1", export.Riders[0].Label)
	// label "1" appears in both frames, label "2" only in the first
	assert.Len(t, export.Riders[0].Track, 2)
	assert.Len(t, export.Riders[1].Track, 1)
	assert.Equal(t, "m-exp", export.Document.ID)
}

func TestExportDrill_Gzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	require.NoError(t, b.SaveDrill(testDrill("m-gz", "Compressed")))

	path, err := b.ExportDrill("m-gz")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json.gz"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export DrillExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, "Compressed", export.Name)
}

func TestExportDrill_UnknownID(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})

	_, err := b.ExportDrill("nope")
	assert.ErrorIs(t, err, drill.ErrNotFound)
}
