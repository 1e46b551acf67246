package controller

import (
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
)

// Output is the wire shape of every server-initiated message.
type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c *controller) broadcast(messageType string, payload any) {
	if err := c.broadcaster.Broadcast(Output{Type: messageType, Payload: payload}); err != nil {
		slog.Error("failed to broadcast message", "type", messageType, "error", err)
	}
}

// readInput parses and validates a message payload, reporting problems
// back on the same connection. Returns false when the handler should not
// proceed.
func (c *controller) readInput(conn *websocket.Conn, payload json.RawMessage, dst any) bool {
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, dst); err != nil {
			c.sendError(conn, err)
			return false
		}
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		if err := conn.WriteJSON(Output{Type: "ERROR", Payload: validationErrors}); err != nil {
			slog.Debug("failed to write error message", "error", err)
		}
		return false
	}

	return true
}

func (c *controller) sendError(conn *websocket.Conn, err error) {
	if writeErr := conn.WriteJSON(Output{Type: "ERROR", Payload: err.Error()}); writeErr != nil {
		slog.Debug("failed to write error message", "error", writeErr)
	}
}
