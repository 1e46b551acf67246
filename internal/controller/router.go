package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Post("/verify-pin", c.verifyPin)
		r.Get("/session", c.getSession)

		r.Group(func(r chi.Router) {
			r.Use(c.authMw)
			r.Post("/logout", c.logout)
			r.Get("/photos", c.listPhotos)
			r.Post("/photos", c.uploadPhotos)
			r.Get("/playlists", c.listPlaylists)
		})
	})

	r.Get("/ws", c.serveWS)

	return r
}
