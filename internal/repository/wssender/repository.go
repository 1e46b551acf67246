// Package wssender pushes JSON messages to every connected client. Writes
// to a single connection are serialized; a failed write skips that
// connection rather than failing the broadcast.
package wssender

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type iConnRepo interface {
	GetConns() []*websocket.Conn
}

type repo struct {
	connRepo iConnRepo
	mu       sync.Mutex
}

func NewRepo(connRepo iConnRepo) *repo {
	return &repo{connRepo: connRepo}
}

func (r *repo) Broadcast(message any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conn := range r.connRepo.GetConns() {
		if err := conn.WriteJSON(message); err != nil {
			slog.Debug("failed to write message to connection", "error", err)
		}
	}

	return nil
}
