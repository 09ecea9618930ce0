// Package handlers wires the editing and playback surface to the command
// dispatcher: each handler parses string arguments arriving from the UI or
// over the wire and calls into the editor, the player, or the document
// store.
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/equidrill/drillbook/internal/dispatcher"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/internal/editor"
	"github.com/equidrill/drillbook/internal/gait"
	"github.com/equidrill/drillbook/internal/geometry"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/playback"
	"github.com/equidrill/drillbook/internal/util"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Store      *docstore.Store
	Editor     *editor.Editor
	Player     *playback.Player
	LogManager *logging.SlogManager
}

// Service provides handler methods for processing editor and playback
// commands.
type Service struct {
	deps Dependencies
	log  *slog.Logger
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	s := &Service{deps: deps, log: slog.Default()}
	if deps.LogManager != nil {
		s.log = deps.LogManager.Logger()
	}
	return s
}

// RegisterHandlers registers all editing and playback handlers with the
// dispatcher. Everything here is synchronous; the UI needs results.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register("editor.select", s.handleSelect)
	d.Register("editor.toggle", s.handleToggle)
	d.Register("editor.clear", s.handleClearSelection)

	d.Register("editor.horse.add", s.handleHorseAdd, dispatcher.Logged())
	d.Register("editor.horse.delete", s.handleHorseDelete, dispatcher.Logged())
	d.Register("editor.horse.gait", s.handleHorseGait)
	d.Register("editor.horse.direction", s.handleHorseDirection)
	d.Register("editor.horse.lock", s.handleHorseLock)
	d.Register("editor.horse.label", s.handleHorseLabel)

	d.Register("editor.align", s.handleAlign)
	d.Register("editor.distribute", s.handleDistribute)

	d.Register("editor.undo", s.handleUndo)
	d.Register("editor.redo", s.handleRedo)

	d.Register("editor.pointer", s.handlePointer)
	d.Register("editor.touch", s.handleTouch)

	d.Register("frame.add", s.handleFrameAdd, dispatcher.Logged())
	d.Register("frame.duplicate", s.handleFrameDuplicate, dispatcher.Logged())
	d.Register("frame.remove", s.handleFrameRemove, dispatcher.Logged())
	d.Register("frame.select", s.handleFrameSelect)
	d.Register("frame.move", s.handleFrameMove)
	d.Register("frame.duration", s.handleFrameDuration)

	d.Register("drill.rename", s.handleRename, dispatcher.Logged())
	d.Register("drill.import", s.handleImport, dispatcher.Logged())

	d.Register("playback.play", s.handlePlay)
	d.Register("playback.pause", s.handlePause)
	d.Register("playback.stop", s.handleStop)
	d.Register("playback.seek", s.handleSeek)
	d.Register("playback.advance", s.handleAdvance)
	d.Register("playback.sample", s.handleSample)
	d.Register("playback.status", s.handleStatus)
}

// cleanArgs strips transport quoting from every argument in place.
func cleanArgs(args []string) []string {
	for i, v := range args {
		args[i] = util.FixEscapeQuotes(util.TrimQuotes(v))
	}
	return args
}

func (s *Service) handleSelect(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	s.deps.Editor.Select(args...)
	return s.deps.Editor.Selection(), nil
}

func (s *Service) handleToggle(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("editor.toggle requires a horse ID")
	}
	s.deps.Editor.ToggleSelect(args[0])
	return s.deps.Editor.Selection(), nil
}

func (s *Service) handleClearSelection(e dispatcher.Event) (any, error) {
	s.deps.Editor.ClearSelection()
	return "ok", nil
}

// handleHorseAdd places a horse. Args: [label, "[x,y]"], position in arena
// meters. Returns the new horse's ID.
func (s *Service) handleHorseAdd(e dispatcher.Event) (any, error) {
	functionName := "editor.horse.add"
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("%s requires a label and a position", functionName)
	}

	x, y, err := util.ParseXY(args[1])
	if err != nil {
		s.log.Error("bad position argument", "command", functionName, "error", err)
		return nil, err
	}

	id := s.deps.Editor.AddHorse(args[0], geometry.Point{X: x, Y: y})
	if id == "" {
		return nil, fmt.Errorf("%s: no current frame", functionName)
	}
	return id, nil
}

func (s *Service) handleHorseDelete(e dispatcher.Event) (any, error) {
	s.deps.Editor.DeleteSelected()
	return "ok", nil
}

// handleHorseGait sets a horse's gait. Args: [horseID, gaitName].
func (s *Service) handleHorseGait(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("editor.horse.gait requires a horse ID and a gait name")
	}
	s.deps.Editor.SetGait(args[0], gait.Parse(args[1]))
	return "ok", nil
}

// handleHorseDirection sets a horse's facing. Args: [horseID, degrees].
func (s *Service) handleHorseDirection(e dispatcher.Event) (any, error) {
	functionName := "editor.horse.direction"
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("%s requires a horse ID and degrees", functionName)
	}
	deg, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		s.log.Error("bad degrees argument", "command", functionName, "error", err)
		return nil, err
	}
	s.deps.Editor.SetDirection(args[0], deg*math.Pi/180)
	return "ok", nil
}

// handleHorseLock locks or unlocks a horse. Args: [horseID, bool].
func (s *Service) handleHorseLock(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("editor.horse.lock requires a horse ID and a bool")
	}
	locked, err := strconv.ParseBool(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid lock flag %q", args[1])
	}
	s.deps.Editor.SetLocked(args[0], locked)
	return "ok", nil
}

// handleHorseLabel renames a horse. Args: [horseID, label].
func (s *Service) handleHorseLabel(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("editor.horse.label requires a horse ID and a label")
	}
	s.deps.Editor.SetLabel(args[0], args[1])
	return "ok", nil
}

// handleAlign aligns the selection. Args: [h|v].
func (s *Service) handleAlign(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("editor.align requires an axis (h or v)")
	}
	switch strings.ToLower(args[0]) {
	case "h", "horizontal":
		s.deps.Editor.AlignHorizontally()
	case "v", "vertical":
		s.deps.Editor.AlignVertically()
	default:
		return nil, fmt.Errorf("unknown align axis: %s", args[0])
	}
	return "ok", nil
}

// handleDistribute distributes the selection. Args: [line|circle|radial].
func (s *Service) handleDistribute(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("editor.distribute requires a mode")
	}
	switch strings.ToLower(args[0]) {
	case "line":
		s.deps.Editor.DistributeLine()
	case "circle":
		s.deps.Editor.DistributeCircle()
	case "radial":
		s.deps.Editor.RadialDistribute()
	default:
		return nil, fmt.Errorf("unknown distribute mode: %s", args[0])
	}
	return "ok", nil
}

func (s *Service) handleUndo(e dispatcher.Event) (any, error) {
	s.deps.Editor.Undo()
	return "ok", nil
}

func (s *Service) handleRedo(e dispatcher.Event) (any, error) {
	s.deps.Editor.Redo()
	return "ok", nil
}

// handlePointer feeds one pointer sample into the editor.
// Args: [down|move|up|cancel, "[x,y]"] in screen pixels.
func (s *Service) handlePointer(e dispatcher.Event) (any, error) {
	functionName := "editor.pointer"
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires a phase", functionName)
	}

	phase := strings.ToLower(args[0])
	if phase == "cancel" {
		s.deps.Editor.CancelDrag()
		return "ok", nil
	}

	if len(args) < 2 {
		return nil, fmt.Errorf("%s %s requires a position", functionName, phase)
	}
	x, y, err := util.ParseXY(args[1])
	if err != nil {
		s.log.Error("bad position argument", "command", functionName, "error", err)
		return nil, err
	}

	p := editor.Pointer{X: x, Y: y}
	switch phase {
	case "down":
		s.deps.Editor.PointerDown(p)
	case "move":
		s.deps.Editor.PointerMove(p)
	case "up":
		s.deps.Editor.PointerUp(p)
	default:
		return nil, fmt.Errorf("unknown pointer phase: %s", phase)
	}
	return "ok", nil
}

// handleTouch feeds one multi-touch sample into the editor.
// Args: [start|move|end, "[x,y]"...], one position per active finger.
func (s *Service) handleTouch(e dispatcher.Event) (any, error) {
	functionName := "editor.touch"
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires a phase", functionName)
	}

	touches := make([]editor.Touch, 0, len(args)-1)
	for i, raw := range args[1:] {
		x, y, err := util.ParseXY(raw)
		if err != nil {
			s.log.Error("bad touch argument", "command", functionName, "index", i, "error", err)
			return nil, err
		}
		touches = append(touches, editor.Touch{ID: i, X: x, Y: y})
	}

	switch strings.ToLower(args[0]) {
	case "start":
		s.deps.Editor.TouchStart(touches)
	case "move":
		s.deps.Editor.TouchMove(touches)
	case "end":
		s.deps.Editor.TouchEnd(touches)
	default:
		return nil, fmt.Errorf("unknown touch phase: %s", args[0])
	}
	return "ok", nil
}

func (s *Service) handleFrameAdd(e dispatcher.Event) (any, error) {
	s.deps.Editor.AddFrame()
	return s.deps.Store.FrameIndex(), nil
}

func (s *Service) handleFrameDuplicate(e dispatcher.Event) (any, error) {
	s.deps.Editor.DuplicateFrame()
	return s.deps.Store.FrameIndex(), nil
}

func (s *Service) handleFrameRemove(e dispatcher.Event) (any, error) {
	s.deps.Editor.RemoveFrame()
	return s.deps.Store.FrameIndex(), nil
}

// handleFrameSelect moves the frame cursor. Args: [index].
func (s *Service) handleFrameSelect(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("frame.select requires an index")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid frame index %q", args[0])
	}
	s.deps.Store.SetFrameIndex(idx)
	return s.deps.Store.FrameIndex(), nil
}

// handleFrameMove reorders frames. Args: [from, to].
func (s *Service) handleFrameMove(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 2 {
		return nil, fmt.Errorf("frame.move requires from and to indexes")
	}
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid from index %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid to index %q", args[1])
	}
	s.deps.Editor.MoveFrame(from, to)
	return s.deps.Store.FrameIndex(), nil
}

// handleFrameDuration sets the cursor frame's duration. Args: [seconds] or
// ["auto"] to infer it from the gait model.
func (s *Service) handleFrameDuration(e dispatcher.Event) (any, error) {
	functionName := "frame.duration"
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires seconds or 'auto'", functionName)
	}

	if strings.EqualFold(args[0], "auto") {
		s.deps.Editor.InferFrameDuration()
		return "ok", nil
	}

	dur, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		s.log.Error("bad duration argument", "command", functionName, "error", err)
		return nil, err
	}
	s.deps.Editor.SetFrameDuration(dur)
	return "ok", nil
}

// handleRename renames the working drill. Args: [name].
func (s *Service) handleRename(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 || args[0] == "" {
		return nil, fmt.Errorf("drill.rename requires a name")
	}
	s.deps.Editor.RenameDrill(args[0])
	return "ok", nil
}

// handleImport replaces the working document with the drill carried in the
// event payload. A fresh editing context: history is cleared and the frame
// cursor rewinds. Returns the imported drill's ID.
func (s *Service) handleImport(e dispatcher.Event) (any, error) {
	functionName := "drill.import"
	if len(e.Payload) == 0 {
		return nil, fmt.Errorf("%s requires a document payload", functionName)
	}

	var d drill.Drill
	if err := json.Unmarshal(e.Payload, &d); err != nil {
		s.log.Error("bad document payload", "command", functionName, "error", err)
		return nil, err
	}
	if len(d.Frames) == 0 {
		return nil, fmt.Errorf("%s: document has no frames", functionName)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	s.deps.Store.Set(d, docstore.SetOptions{})
	return d.ID, nil
}

func (s *Service) handlePlay(e dispatcher.Event) (any, error) {
	s.deps.Player.Play()
	return s.deps.Player.State().String(), nil
}

func (s *Service) handlePause(e dispatcher.Event) (any, error) {
	s.deps.Player.Pause()
	return s.deps.Player.State().String(), nil
}

func (s *Service) handleStop(e dispatcher.Event) (any, error) {
	s.deps.Player.Stop()
	return s.deps.Player.State().String(), nil
}

// handleSeek scrubs to a time. Args: [seconds].
func (s *Service) handleSeek(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("playback.seek requires seconds")
	}
	t, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seek time %q", args[0])
	}
	s.deps.Player.Seek(t)
	return s.deps.Player.CurrentTime(), nil
}

// handleAdvance moves playback forward. Args: [deltaSeconds].
func (s *Service) handleAdvance(e dispatcher.Event) (any, error) {
	args := cleanArgs(e.Args)
	if len(args) < 1 {
		return nil, fmt.Errorf("playback.advance requires delta seconds")
	}
	dt, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid delta %q", args[0])
	}
	s.deps.Player.Advance(dt)
	return s.deps.Player.CurrentTime(), nil
}

// handleSample returns the interpolated horse poses at the playback time.
func (s *Service) handleSample(e dispatcher.Event) (any, error) {
	return s.deps.Player.Sample(), nil
}

// handleStatus returns the playback state and time.
func (s *Service) handleStatus(e dispatcher.Event) (any, error) {
	return map[string]any{
		"state": s.deps.Player.State().String(),
		"time":  s.deps.Player.CurrentTime(),
	}, nil
}
