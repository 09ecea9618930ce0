package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureConsole redirects the package's stdout indirection to a pipe and
// returns a function that restores it and yields what was written.
func captureConsole(t *testing.T) func() string {
	t.Helper()

	r, w, err := osPipe()
	require.NoError(t, err)

	orig := osStdout
	osStdout = w

	return func() string {
		w.Close()
		osStdout = orig
		var buf bytes.Buffer
		buf.ReadFrom(r)
		r.Close()
		return buf.String()
	}
}

// TestSetup_SessionFile exercises the serve wiring: the session log lands in
// the file named by LogFilePath and the console stays quiet.
func TestSetup_SessionFile(t *testing.T) {
	console := captureConsole(t)

	sessionStart := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	path := LogFilePath(t.TempDir(), "drillbook", sessionStart)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	defer f.Close()

	m := NewSlogManager()
	m.Setup(f, "info", nil)
	m.Logger().Info("frame duplicated", "frame", 3)

	written, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(written), "Logging initialized")
	assert.Contains(t, string(written), "frame duplicated")
	assert.Empty(t, console(), "session-file logging must not echo to the console")
	assert.Equal(t, "drillbook.20260814_093000.log", filepath.Base(path))
}

func TestSetup_ConsoleFallback(t *testing.T) {
	console := captureConsole(t)

	m := NewSlogManager()
	m.Setup(nil, "info", nil)
	m.Logger().Info("horse added", "label", "Duke")

	assert.Contains(t, console(), "horse added")
}

func TestSetup_LevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		debugSeen  bool
		errorsSeen bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, true},
		{"not-a-level", false, true}, // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, tt.level, nil)

			m.Logger().Debug("pointer sample")
			m.Logger().Error("backend save failed")

			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("pointer sample")))
			assert.Equal(t, tt.errorsSeen, bytes.Contains(buf.Bytes(), []byte("backend save failed")))
		})
	}
}

func TestParseLevel_CaseInsensitive(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelDebug, parseLevel("Debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

// TestSetContext_StampsSession verifies every record carries the editing
// context, evaluated at log time so the stamp tracks the frame cursor.
func TestSetContext_StampsSession(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	frameIndex := 0
	m.SetContext(func() []slog.Attr {
		return []slog.Attr{
			slog.String("drill", "Quadrille"),
			slog.Int("frame", frameIndex),
		}
	})

	m.Logger().Info("selection cleared")
	frameIndex = 4
	m.Logger().Info("gait changed")

	out := buf.String()
	assert.Contains(t, out, "drill=Quadrille")
	assert.Contains(t, out, "frame=0")
	assert.Contains(t, out, "frame=4")
}

func TestSetContext_UnsetIsClean(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.Logger().Info("no session yet")

	assert.Contains(t, buf.String(), "no session yet")
	assert.NotContains(t, buf.String(), "drill=")
}

// TestSetup_NewSession models a second serve run: the replacement logger
// writes to the new session file only.
func TestSetup_NewSession(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()

	m.Setup(&first, "info", nil)
	m.Logger().Info("session one")

	m.Setup(&second, "info", nil)
	m.Logger().Info("session two")

	assert.Contains(t, first.String(), "session one")
	assert.NotContains(t, first.String(), "session two")
	assert.Contains(t, second.String(), "session two")
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestSetup_OTelBridge(t *testing.T) {
	provider := sdklog.NewLoggerProvider() // exporterless, exercises the bridge path

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", provider)
	m.Logger().Info("autosave complete")

	assert.Contains(t, buf.String(), "autosave complete")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestFlush_NoProvider(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))
}

// failingHandler always errors from Handle, standing in for a wedged sink.
type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink unavailable")
}

func TestMultiHandler(t *testing.T) {
	t.Run("fans out to every sink", func(t *testing.T) {
		var console, file bytes.Buffer
		multi := NewMultiHandler(
			slog.NewTextHandler(&console, nil),
			slog.NewTextHandler(&file, nil),
		)

		slog.New(multi).Info("undo")

		assert.Contains(t, console.String(), "undo")
		assert.Contains(t, file.String(), "undo")
	})

	t.Run("drops nil sinks", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil))
		require.Len(t, multi.handlers, 1)

		slog.New(multi).Info("redo")
		assert.Contains(t, buf.String(), "redo")
	})

	t.Run("enabled when any sink is", func(t *testing.T) {
		quiet := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
		chatty := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

		assert.False(t, NewMultiHandler(quiet).Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, NewMultiHandler(quiet, chatty).Enabled(context.Background(), slog.LevelDebug))
		assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("one failing sink does not starve the rest", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(failingHandler{}, slog.NewTextHandler(&buf, nil))

		slog.New(multi).Info("still logged")
		assert.Contains(t, buf.String(), "still logged")
	})

	t.Run("attrs and groups reach the sinks", func(t *testing.T) {
		var buf bytes.Buffer
		multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))

		logger := slog.New(multi.WithAttrs([]slog.Attr{slog.String("editor", "main")}))
		logger.WithGroup("playback").Info("seek", "time", 12.5)

		assert.Contains(t, buf.String(), "editor=main")
		assert.Contains(t, buf.String(), "playback.time=12.5")
	})
}
