// internal/handlers/api_server.go
package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/tbg/internal/config"
	"github.com/jason-s-yu/tbg/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every HTTP and WebSocket route of the game service.
func NewRouter(cfg *config.Config, logger *logrus.Logger, gs *GameServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.LogMiddleware(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/create", CreateGameHandler(gs))
		r.Post("/login", LoginHandler(gs))
		r.Get("/access", AccessHandler(gs))

		r.Route("/game/{id}", func(r chi.Router) {
			r.Get("/", ViewHandler(gs))
			r.Post("/start", StartHandler(gs))
			r.Post("/leave", LeaveHandler(gs))
			r.Post("/play/hand", PlayHandHandler(gs))
			r.Post("/play/market", PlayMarketHandler(gs))
			r.Post("/play/pending", PlayPendingHandler(gs))
			r.Post("/draw/market", DrawMarketHandler(gs))
			r.Post("/draw/hand", DrawHandHandler(gs))
			r.Post("/trade/create", CreateTradeHandler(gs))
			r.Post("/trade/accept", AcceptTradeHandler(gs))
			r.Post("/trade/reject", RejectTradeHandler(gs))
			r.Post("/buy", BuyFieldHandler(gs))
		})
	})

	r.Get("/game/ws/{id}", GameWSHandler(logger, gs, originPatterns(cfg.AllowedOrigins)))
	return r
}

// originPatterns turns CORS origins ("https://example.com") into the host patterns
// websocket.Accept matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://"))
	}
	return patterns
}
