// Package streaming defines the wire messages used to mirror a live editing
// session to the drillbook server, so other devices can follow the drill as
// it is edited or played back.
package streaming

import (
	"encoding/json"

	"github.com/equidrill/drillbook/internal/drill"
)

// Message type constants matching the live session protocol.
const (
	TypeOpenSession  = "open_session"
	TypeCloseSession = "close_session"
	TypeDocument     = "document"
	TypeFrameCursor  = "frame_cursor"
	TypePlayback     = "playback"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// OpenSessionPayload announces an editing session and carries the full
// document so followers can render immediately.
type OpenSessionPayload struct {
	Drill  *drill.Drill `json:"drill"`
	Editor string       `json:"editor,omitempty"` // display name of the editing device
}

// DocumentPayload carries the full document after an edit.
type DocumentPayload struct {
	Drill drill.Drill `json:"drill"`
}

// FrameCursorPayload reports which frame the editing device is viewing.
type FrameCursorPayload struct {
	Index int `json:"index"`
}

// PlaybackPayload reports the playback state and position.
type PlaybackPayload struct {
	State string  `json:"state"`
	Time  float64 `json:"time"`
}
