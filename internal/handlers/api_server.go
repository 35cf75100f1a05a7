// internal/handlers/api_server.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/landgrab/internal/middleware"
)

// RouterOptions controls cross-origin access to the API.
type RouterOptions struct {
	Production bool
	// AllowedOrigins is only enforced in production; development accepts any http(s) origin.
	AllowedOrigins []string
}

// Routes builds the full HTTP surface of the service.
func (gs *GameServer) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LogMiddleware(gs.Logger))
	r.Use(chimw.Recoverer)

	origins := []string{"https://*", "http://*"}
	var wsOrigins []string
	if opts.Production {
		origins = opts.AllowedOrigins
		wsOrigins = originHosts(opts.AllowedOrigins)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", ClientIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cards", ListCardsHandler(gs))
		r.Get("/cards/{templateId}", GetCardHandler(gs))

		r.Route("/games", func(r chi.Router) {
			r.Post("/", CreateMatchHandler(gs))
			r.Get("/{matchId}", GetMatchHandler(gs))
			r.Delete("/{matchId}", DeleteMatchHandler(gs))
			r.Post("/{matchId}/advance", AdvanceTurnHandler(gs))
			r.Post("/{matchId}/action", ApplyActionHandler(gs))
			r.Get("/{matchId}/ws", GameWSHandler(gs, wsOrigins))
		})

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", CreateDeckHandler(gs))
			r.Get("/", ListDecksHandler(gs))
			r.Get("/{deckId}", GetDeckHandler(gs))
			r.Put("/{deckId}", UpdateDeckHandler(gs))
			r.Delete("/{deckId}", DeleteDeckHandler(gs))
		})
	})
	return r
}

// originHosts turns CORS origins into the host patterns the WebSocket accept check expects.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "https://")
		o = strings.TrimPrefix(o, "http://")
		hosts = append(hosts, strings.TrimSuffix(o, "/"))
	}
	return hosts
}
