package handlers

import (
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equidrill/drillbook/internal/dispatcher"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/playback"
	"github.com/equidrill/drillbook/internal/util"

	ed "github.com/equidrill/drillbook/internal/editor"
)

func testRig(t *testing.T) (*dispatcher.Dispatcher, *docstore.Store) {
	t.Helper()
	store := docstore.NewStore()
	editor := ed.NewEditor(store, 800, 400)
	player := playback.NewPlayer(store.Get)

	d, err := dispatcher.New(logging.NewDispatcherLogger(slog.Default()))
	require.NoError(t, err)

	svc := NewService(Dependencies{
		Store:  store,
		Editor: editor,
		Player: player,
	})
	svc.RegisterHandlers(d)
	return d, store
}

func dispatch(t *testing.T, d *dispatcher.Dispatcher, cmd string, args ...string) any {
	t.Helper()
	res, err := d.Dispatch(dispatcher.Event{Command: cmd, Args: args})
	require.NoError(t, err, cmd)
	return res
}

func addHorse(t *testing.T, d *dispatcher.Dispatcher, label string, x, y float64) string {
	t.Helper()
	res := dispatch(t, d, "editor.horse.add", label, util.FormatXY(x, y))
	id, ok := res.(string)
	require.True(t, ok, "editor.horse.add should return the new ID")
	return id
}

func TestHorseAdd_PlacesHorse(t *testing.T) {
	d, store := testRig(t)

	id := addHorse(t, d, "Anna", 10, 5)

	h := store.CurrentFrame().HorseByID(id)
	require.NotNil(t, h)
	assert.Equal(t, "Anna", h.Label)
	assert.Equal(t, 10.0, h.Position.X)
	assert.Equal(t, 5.0, h.Position.Y)
}

func TestHorseAdd_BadArguments(t *testing.T) {
	d, _ := testRig(t)

	_, err := d.Dispatch(dispatcher.Event{Command: "editor.horse.add", Args: []string{"Anna"}})
	assert.Error(t, err, "missing position")

	_, err = d.Dispatch(dispatcher.Event{Command: "editor.horse.add", Args: []string{"Anna", "[x,y]"}})
	assert.Error(t, err, "unparseable position")
}

func TestHorseProperties(t *testing.T) {
	d, store := testRig(t)
	id := addHorse(t, d, "Anna", 10, 5)

	dispatch(t, d, "editor.horse.gait", id, "trot")
	dispatch(t, d, "editor.horse.direction", id, "90")
	dispatch(t, d, "editor.horse.lock", id, "true")
	dispatch(t, d, "editor.horse.label", id, "Bea")

	h := store.CurrentFrame().HorseByID(id)
	require.NotNil(t, h)
	assert.Equal(t, gait.Trot, h.Speed)
	assert.InDelta(t, math.Pi/2, h.Direction, 1e-9, "degrees convert to radians")
	assert.True(t, h.Locked)
	assert.Equal(t, "Bea", h.Label)
}

func TestSelectionCommands(t *testing.T) {
	d, _ := testRig(t)
	a := addHorse(t, d, "A", 0, 0)
	b := addHorse(t, d, "B", 5, 0)

	res := dispatch(t, d, "editor.select", a, b)
	assert.ElementsMatch(t, []string{a, b}, res.([]string))

	res = dispatch(t, d, "editor.toggle", b)
	assert.Equal(t, []string{a}, res.([]string))

	dispatch(t, d, "editor.clear")
	res = dispatch(t, d, "editor.select")
	assert.Empty(t, res.([]string))
}

func TestAlignAndDistribute(t *testing.T) {
	d, store := testRig(t)
	a := addHorse(t, d, "A", 0, 0)
	b := addHorse(t, d, "B", 10, 4)
	dispatch(t, d, "editor.select", a, b)

	dispatch(t, d, "editor.align", "h")

	f := store.CurrentFrame()
	assert.Equal(t, f.HorseByID(a).Position.Y, f.HorseByID(b).Position.Y)

	_, err := d.Dispatch(dispatcher.Event{Command: "editor.align", Args: []string{"diagonal"}})
	assert.Error(t, err)

	_, err = d.Dispatch(dispatcher.Event{Command: "editor.distribute", Args: []string{"spiral"}})
	assert.Error(t, err)
}

func TestUndoRedoCommands(t *testing.T) {
	d, store := testRig(t)
	id := addHorse(t, d, "Anna", 10, 5)

	dispatch(t, d, "editor.undo")
	assert.Nil(t, store.CurrentFrame().HorseByID(id))

	dispatch(t, d, "editor.redo")
	assert.NotNil(t, store.CurrentFrame().HorseByID(id))
}

func TestFrameCommands(t *testing.T) {
	d, store := testRig(t)
	addHorse(t, d, "Anna", 10, 5)

	res := dispatch(t, d, "frame.add")
	assert.Equal(t, 1, res.(int), "cursor follows the new frame")
	assert.Len(t, store.Get().Frames, 2)
	assert.Len(t, store.CurrentFrame().Horses, 1, "horses carry forward")

	dispatch(t, d, "frame.duration", "2.5")
	assert.Equal(t, 2.5, store.CurrentFrame().Duration)

	res = dispatch(t, d, "frame.select", "0")
	assert.Equal(t, 0, res.(int))

	res = dispatch(t, d, "frame.duplicate")
	assert.Equal(t, 1, res.(int))
	assert.Len(t, store.Get().Frames, 3)

	dispatch(t, d, "frame.move", "2", "0")
	assert.Equal(t, 0, store.FrameIndex())

	dispatch(t, d, "frame.remove")
	assert.Len(t, store.Get().Frames, 2)
}

func TestFrameDuration_Auto(t *testing.T) {
	d, store := testRig(t)
	addHorse(t, d, "Anna", 0, 0)
	dispatch(t, d, "frame.add")

	// walk the horse 10m in the second frame, then infer the first frame's
	// duration from the walk speed
	doc := store.Get()
	doc.Frames[1].Horses[0].Position.X = 10
	store.Set(doc, docstore.SetOptions{SkipHistoryClear: true, PreserveFrameIndex: true})

	dispatch(t, d, "frame.select", "0")
	dispatch(t, d, "frame.duration", "auto")

	want := 10.0 / gait.Walk.Speed()
	assert.InDelta(t, want, store.CurrentFrame().Duration, 1e-9)
}

func TestRenameDrill(t *testing.T) {
	d, store := testRig(t)
	dispatch(t, d, "drill.rename", `"Spring Quadrille"`)
	assert.Equal(t, "Spring Quadrille", store.Get().Name, "transport quotes are stripped")
}

func TestPlaybackCommands(t *testing.T) {
	d, _ := testRig(t)
	addHorse(t, d, "Anna", 0, 0)
	dispatch(t, d, "frame.add")
	dispatch(t, d, "frame.select", "0")

	res := dispatch(t, d, "playback.play")
	assert.Equal(t, "playing", res)

	res = dispatch(t, d, "playback.advance", "1.5")
	assert.Equal(t, 1.5, res.(float64))

	res = dispatch(t, d, "playback.pause")
	assert.Equal(t, "paused", res)

	res = dispatch(t, d, "playback.seek", "2")
	assert.Equal(t, 2.0, res.(float64))

	poses := dispatch(t, d, "playback.sample")
	assert.NotEmpty(t, poses)

	status := dispatch(t, d, "playback.status").(map[string]any)
	assert.Equal(t, "paused", status["state"])
	assert.Equal(t, 2.0, status["time"])

	res = dispatch(t, d, "playback.stop")
	assert.Equal(t, "stopped", res)
}

func TestDrillImport(t *testing.T) {
	d, store := testRig(t)
	addHorse(t, d, "Anna", 0, 0)

	incoming := drill.New("Winter Carousel")
	incoming.Frames[0].Horses = append(incoming.Frames[0].Horses, drill.NewHorse("Bea", geometry.Point{X: 12, Y: 6}))
	raw, err := json.Marshal(incoming)
	require.NoError(t, err)

	res, err := d.Dispatch(dispatcher.Event{Command: "drill.import", Payload: raw})
	require.NoError(t, err)
	assert.Equal(t, incoming.ID, res)

	doc := store.Get()
	assert.Equal(t, "Winter Carousel", doc.Name)
	require.NotNil(t, store.CurrentFrame().HorseByLabel("Bea"))
	assert.Nil(t, store.CurrentFrame().HorseByLabel("Anna"), "previous document is replaced")
	assert.Equal(t, 0, store.History().Len(), "importing starts a fresh editing context")
}

func TestDrillImport_BadPayload(t *testing.T) {
	d, _ := testRig(t)

	_, err := d.Dispatch(dispatcher.Event{Command: "drill.import"})
	assert.Error(t, err, "missing payload")

	_, err = d.Dispatch(dispatcher.Event{Command: "drill.import", Payload: []byte("{not json")})
	assert.Error(t, err, "unparseable payload")

	_, err = d.Dispatch(dispatcher.Event{Command: "drill.import", Payload: []byte(`{"name":"empty"}`)})
	assert.Error(t, err, "document without frames")
}

func TestUnknownCommand(t *testing.T) {
	d, _ := testRig(t)
	_, err := d.Dispatch(dispatcher.Event{Command: "editor.nope"})
	assert.Error(t, err)
}
