// Package server exposes the editor over HTTP: a REST surface routing into
// the command dispatcher, and a websocket endpoint mirroring the live
// session to follower devices on the local network.
package server

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/equidrill/drillbook/internal/dispatcher"
	"github.com/equidrill/drillbook/internal/docstore"
	"github.com/equidrill/drillbook/internal/logging"
	"github.com/equidrill/drillbook/pkg/streaming"
)

// Dependencies holds all dependencies for the HTTP server
type Dependencies struct {
	Dispatcher *dispatcher.Dispatcher
	Store      *docstore.Store
	LogManager *logging.SlogManager
}

// Server wraps the fiber app and the follower hub.
type Server struct {
	app  *fiber.App
	deps Dependencies
	hub  *Hub
	log  *slog.Logger
}

// commandRequest is the generic command body accepted by POST /api/v1/command.
// Payload carries the raw JSON document for commands that take one, such as
// drill.import.
type commandRequest struct {
	Command string          `json:"command"`
	Args    []string        `json:"args"`
	Payload json.RawMessage `json:"payload"`
}

// New creates the server and mounts all routes.
func New(deps Dependencies) *Server {
	log := slog.Default()
	if deps.LogManager != nil {
		log = deps.LogManager.Logger()
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "drillbook",
			DisableStartupMessage: true,
			ReadTimeout:           30 * time.Second,
		}),
		deps: deps,
		hub:  NewHub(log),
		log:  log,
	}
	s.routes()
	return s
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Hub returns the follower hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	s.log.Info("HTTP server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/healthcheck", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := s.app.Group("/api/v1")

	api.Get("/drill", s.handleCurrent)
	api.Post("/command", s.handleCommand)

	api.Get("/drills", s.dispatchRoute("drill.list", nil))
	api.Post("/drills/save", s.dispatchRoute("drill.save", nil))
	api.Post("/drills/:id/load", s.dispatchRoute("drill.load", func(c *fiber.Ctx) []string {
		return []string{c.Params("id")}
	}))
	api.Delete("/drills/:id", s.dispatchRoute("drill.delete", func(c *fiber.Ctx) []string {
		return []string{c.Params("id")}
	}))
	api.Post("/drills/:id/export", s.dispatchRoute("drill.export", func(c *fiber.Ctx) []string {
		return []string{c.Params("id")}
	}))

	s.app.Use("/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/live", websocket.New(s.handleFollower))
}

// handleCurrent returns the working document.
func (s *Server) handleCurrent(c *fiber.Ctx) error {
	return c.JSON(s.deps.Store.Get())
}

// handleCommand routes an arbitrary dispatcher command. Editing commands
// mutate the working document, so a document envelope is fanned out to the
// followers afterwards.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid command body")
	}
	if !s.deps.Dispatcher.HasHandler(req.Command) {
		return fiber.NewError(fiber.StatusNotFound, "unknown command: "+req.Command)
	}

	result, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
		Command:   req.Command,
		Args:      req.Args,
		Payload:   req.Payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if mutatesDocument(req.Command) {
		s.broadcastDocument()
	}

	return c.JSON(fiber.Map{"result": result})
}

// dispatchRoute adapts a fixed dispatcher command to a fiber handler.
func (s *Server) dispatchRoute(command string, args func(*fiber.Ctx) []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e := dispatcher.Event{Command: command, Timestamp: time.Now()}
		if args != nil {
			e.Args = args(c)
		}
		result, err := s.deps.Dispatcher.Dispatch(e)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{"result": result})
	}
}

// mutatesDocument reports whether a command changes the working document.
func mutatesDocument(command string) bool {
	switch {
	case strings.HasPrefix(command, "editor."),
		strings.HasPrefix(command, "frame."),
		command == "drill.rename",
		command == "drill.import",
		command == "drill.load":
		return true
	}
	return false
}

// broadcastDocument fans the working document out to the followers.
func (s *Server) broadcastDocument() {
	raw, err := json.Marshal(streaming.DocumentPayload{Drill: s.deps.Store.Get()})
	if err != nil {
		s.log.Error("marshal document broadcast", "error", err)
		return
	}
	s.hub.Broadcast(streaming.Envelope{Type: streaming.TypeDocument, Payload: raw})
}

// handleFollower serves one follower socket: it receives the current
// document on connect, then envelopes as edits happen. Followers are
// read-only; inbound messages are discarded.
func (s *Server) handleFollower(c *websocket.Conn) {
	raw, err := json.Marshal(streaming.DocumentPayload{Drill: s.deps.Store.Get()})
	if err == nil {
		_ = c.WriteJSON(streaming.Envelope{Type: streaming.TypeDocument, Payload: raw})
	}

	s.hub.Register(c)
	defer s.hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
