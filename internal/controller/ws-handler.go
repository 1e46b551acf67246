package controller

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gharapp/server/pkg/rest"
)

func (c *controller) serveWS(w http.ResponseWriter, r *http.Request) {
	if err := c.gateService.ValidateSessionToken(sessionToken(r)); err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "not authenticated"})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	clientId := uuid.NewString()
	if err := c.connRepo.Add(conn, clientId); err != nil {
		slog.InfoContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}
	defer func() {
		if err := c.connRepo.RemoveByConn(conn); err != nil {
			slog.DebugContext(r.Context(), "failed to remove connection", "error", err)
		}
	}()

	// new clients start from the current playback state; collection
	// snapshots arrive through the live subscriptions
	if err := conn.WriteJSON(Output{Type: "PLAYER_UPDATED", Payload: c.playerService.Snapshot()}); err != nil {
		slog.DebugContext(r.Context(), "failed to write initial state", "error", err)
	}

	slog.InfoContext(r.Context(), "client connected", "client_id", clientId)

	if err := c.wsRouter().ServeConn(r.Context(), conn); err != nil {
		slog.InfoContext(r.Context(), "client disconnected", "client_id", clientId, "reason", err)
	}
}
