package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/equidrill/drillbook/internal/cache"
	"github.com/equidrill/drillbook/internal/config"
	"github.com/equidrill/drillbook/internal/dispatcher"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/editor"
	"github.com/equidrill/drillbook/internal/handlers"
	"github.com/equidrill/drillbook/internal/influx"
	"github.com/equidrill/drillbook/internal/livesync"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/internal/monitor"
	"github.com/equidrill/drillbook/internal/otel"
	"github.com/equidrill/drillbook/internal/playback"
	"github.com/equidrill/drillbook/internal/server"
	"github.com/equidrill/drillbook/internal/storage"
	"github.com/equidrill/drillbook/internal/worker"
)

var (
	serveAddr    string
	serveCanvasW float64
	serveCanvasH float64
	syncURL      string
	syncSecret   string
	syncEditor   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor server",
	Long: `Start the drillbook editor server.

The server provides:
  - REST routing of editing, frame, and playback commands
  - A websocket endpoint mirroring the session to follower devices
  - Background autosave to the configured storage backend
  - A once-a-second status monitor

When --sync-url is set the session is additionally mirrored to a remote
drillbook server.

Examples:
  drillbook serve                          # Listen on the configured address
  drillbook serve --addr :3000             # Listen on a custom port
  drillbook serve --sync-url ws://host/ws  # Mirror the session upstream`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Float64Var(&serveCanvasW, "canvas-width", 800, "Canvas width in pixels used for projection")
	serveCmd.Flags().Float64Var(&serveCanvasH, "canvas-height", 400, "Canvas height in pixels used for projection")
	serveCmd.Flags().StringVar(&syncURL, "sync-url", "", "Remote drillbook server websocket URL")
	serveCmd.Flags().StringVar(&syncSecret, "sync-secret", "", "Secret for the remote drillbook server")
	serveCmd.Flags().StringVar(&syncEditor, "editor-name", "drillbook", "Editor display name announced to followers")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	sessionStart := time.Now().UTC()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, "drillbook", sessionStart),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
	)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	defer logFile.Close()

	otelCfg := config.GetOTelConfig()
	provider, err := otel.New(otel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}

	logManager := logging.NewSlogManager()
	logLevel := config.GetString("logLevel")
	if verbose {
		logLevel = "debug"
	}
	logManager.Setup(io.MultiWriter(osStdout(), logFile), logLevel, provider.LoggerProvider())
	log := logManager.Logger()

	// Editing core: document store, transform engine, playback.
	store := docstore.NewStore()
	ed := editor.NewEditor(store, serveCanvasW, serveCanvasH)
	player := playback.NewPlayer(store.Get)

	// Stamp the session log with where the edit happened.
	logManager.SetContext(func() []slog.Attr {
		return []slog.Attr{
			slog.String("drill", store.Get().Name),
			slog.Int("frame", store.FrameIndex()),
		}
	})

	d, err := dispatcher.New(logging.NewDispatcherLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	svc := handlers.NewService(handlers.Dependencies{
		Store:      store,
		Editor:     ed,
		Player:     player,
		LogManager: logManager,
	})
	svc.RegisterHandlers(d)

	// Persistence: storage backend plus the autosave pipeline.
	backend, err := storage.NewBackend(config.GetStorageConfig(), logManager)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()

	wm := worker.NewManager(worker.Dependencies{
		Store:        store,
		SummaryCache: cache.NewSummaryCache(),
		LogManager:   logManager,
	}, backend)
	wm.RegisterHandlers(d)
	wm.StartAutosave(config.GetAutosaveConfig())
	defer wm.Stop()

	// Metrics sink. A failed or disabled connect leaves the monitor running
	// without influx output.
	var influxManager *influx.Manager
	if config.GetInfluxConfig().Enabled {
		zlog := zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()

		im := influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.lp.gz"))
		if err := im.Connect(); err != nil {
			log.Warn("Influx connect failed, metrics disabled", "error", err)
		} else {
			influxManager = im
			defer im.Close()
		}
	}

	mon := monitor.NewService(monitor.Dependencies{
		LogManager:    logManager,
		WorkerManager: wm,
		Influx:        influxManager,
		Store:         store,
		StatusDir:     logsDir,
	})
	if err := mon.Start(); err != nil {
		return fmt.Errorf("failed to start status monitor: %w", err)
	}
	defer mon.Stop()

	// Optional upstream mirror.
	stopMirror, err := startSessionMirror(store, player, log)
	if err != nil {
		return err
	}
	defer stopMirror()

	srv := server.New(server.Dependencies{
		Dispatcher: d,
		Store:      store,
		LogManager: logManager,
	})

	addr := serveAddr
	if addr == "" {
		addr = config.GetServerConfig().Addr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down")
		cancel()
		_ = srv.Shutdown()
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Listen(addr)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	_ = logManager.Flush(flushCtx)
	return provider.Shutdown(flushCtx)
}

// startSessionMirror wires the upstream publisher when --sync-url is set.
// The working document carries its UpdatedAt stamp, so a short poll is
// enough to notice edits without hooking every command path. Returns a stop
// function; a no-op one when mirroring is off.
func startSessionMirror(store *docstore.Store, player *playback.Player, log *slog.Logger) (func(), error) {
	if syncURL == "" {
		return func() {}, nil
	}

	pub := livesync.NewPublisher(livesync.Config{
		URL:    syncURL,
		Secret: syncSecret,
		Editor: syncEditor,
	}, nil)
	if err := pub.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to sync server: %w", err)
	}
	if err := pub.OpenSession(store.Get()); err != nil {
		pub.Close()
		return nil, fmt.Errorf("failed to open sync session: %w", err)
	}
	log.Info("Session mirroring started", "url", syncURL)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)

		lastUpdated := store.Get().UpdatedAt
		lastIndex := store.FrameIndex()
		lastState := player.State().String()

		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				doc := store.Get()
				if doc.UpdatedAt.After(lastUpdated) {
					lastUpdated = doc.UpdatedAt
					if err := pub.PublishDocument(doc); err != nil {
						log.Warn("Failed to publish document", "error", err)
					}
				}
				if idx := store.FrameIndex(); idx != lastIndex {
					lastIndex = idx
					if err := pub.PublishFrameCursor(idx); err != nil {
						log.Warn("Failed to publish frame cursor", "error", err)
					}
				}
				if st := player.State().String(); st != lastState {
					lastState = st
					if err := pub.PublishPlayback(st, player.CurrentTime()); err != nil {
						log.Warn("Failed to publish playback state", "error", err)
					}
				}
			}
		}
	}()

	return func() {
		close(stop)
		<-done
		_ = pub.CloseSession()
		_ = pub.Close()
	}, nil
}

// osStdout is indirected so runServe stays testable without touching the
// real terminal.
func osStdout() io.Writer {
	return os.Stdout
}
