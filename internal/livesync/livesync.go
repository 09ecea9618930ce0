// Package livesync mirrors the local editing session to the drillbook
// server over WebSocket. Document updates are fire-and-forget; opening and
// closing a session waits for a server acknowledgement. The connection
// survives network drops by reconnecting with backoff and replaying the
// session open message.
package livesync

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/equidrill/drillbook/internal/drill"
	"github.com/equidrill/drillbook/pkg/streaming"
)

// Config holds live session settings.
type Config struct {
	URL    string
	Secret string
	Editor string // display name announced to followers
}

// Publisher streams session state to the server.
type Publisher struct {
	conn *connection
	cfg  Config
}

// NewPublisher creates a publisher for the given server.
func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Connect dials the WebSocket server.
func (p *Publisher) Connect() error {
	return p.conn.dial(p.cfg.URL, p.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (p *Publisher) Close() error {
	return p.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it to the
// write loop (fire-and-forget).
func (p *Publisher) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	p.conn.send(data)
	return nil
}

// OpenSession announces the editing session with the full document and
// waits for the server ack. The message is cached so a reconnect can replay
// it.
func (p *Publisher) OpenSession(d drill.Drill) error {
	data, err := marshalEnvelope(streaming.TypeOpenSession, streaming.OpenSessionPayload{
		Drill:  &d,
		Editor: p.cfg.Editor,
	})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	p.conn.mu.Lock()
	p.conn.cachedOpenMsg = data
	p.conn.mu.Unlock()

	return p.conn.sendAndWait(data, streaming.TypeOpenSession, ackTimeout)
}

// CloseSession ends the session and waits for the server ack.
func (p *Publisher) CloseSession() error {
	data, err := marshalEnvelope(streaming.TypeCloseSession, nil)
	if err != nil {
		return err
	}
	err = p.conn.sendAndWait(data, streaming.TypeCloseSession, ackTimeout)

	// Clear cached state regardless of error.
	p.conn.mu.Lock()
	p.conn.cachedOpenMsg = nil
	p.conn.mu.Unlock()

	return err
}

// PublishDocument mirrors the document after an edit.
func (p *Publisher) PublishDocument(d drill.Drill) error {
	return p.sendEnvelope(streaming.TypeDocument, streaming.DocumentPayload{Drill: d})
}

// PublishFrameCursor mirrors the frame the editing device is viewing.
func (p *Publisher) PublishFrameCursor(index int) error {
	return p.sendEnvelope(streaming.TypeFrameCursor, streaming.FrameCursorPayload{Index: index})
}

// PublishPlayback mirrors the playback state and position.
func (p *Publisher) PublishPlayback(state string, t float64) error {
	return p.sendEnvelope(streaming.TypePlayback, streaming.PlaybackPayload{State: state, Time: t})
}
