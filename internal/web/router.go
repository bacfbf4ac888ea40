package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"bizcards/internal/notify"
	"bizcards/internal/session"
)

// NewRouter assembles the public HTTP surface: health, the page API under
// /api and the notification socket.
func NewRouter(sessions *session.Manager, hub *notify.Hub) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"bizcards"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(WithSession(sessions))
		r.Mount("/", NewHandler(hub).Routes())
	})

	if hub != nil {
		r.Get("/ws/notifications", hub.HandleWS)
	}
	return r
}
