package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	// ChannelID, when set, is the only channel requests are accepted from.
	ChannelID string
	Logger    *slog.Logger
}

func NewHandler(cfg RouterConfig, voteHandler *VoteHandler, orderHandler *OrderHandler, sessionHandler *SessionHandler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(ChannelGuard(cfg.ChannelID, cfg.Logger))

		r.Post("/votes", voteHandler.Submit)
		r.Get("/orders", orderHandler.Query)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/today", sessionHandler.Today)
			r.Get("/{date}", sessionHandler.ByDate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/announcements", sessionHandler.StartAnnouncement)
			r.Post("/refresh", sessionHandler.Refresh)
			r.Post("/close", sessionHandler.Close)
			r.Post("/close-final", sessionHandler.CloseFinal)
			r.Post("/delivery", sessionHandler.Delivery)
		})
	})

	return r
}
