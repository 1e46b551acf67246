package controller

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gharapp/server/pkg/ctxlogger"
	"github.com/gharapp/server/pkg/rest"
)

func (c *controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// authMw refuses requests lacking a valid session token. The token rides
// the Authorization header; WebSocket upgrades pass it as a query
// parameter instead since browsers cannot set headers on ws dials.
func (c *controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.gateService.ValidateSessionToken(sessionToken(r)); err != nil {
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return r.URL.Query().Get("token")
}
