package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/league-ledger/handlers"
	"github.com/Dosada05/league-ledger/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Match     *handlers.MatchHandler
	League    *handlers.LeagueHandler
	Roster    *handlers.RosterHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, jwtSecret string, allowedOrigins []string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Post("/auth/login", h.Auth.Login)
	router.Get("/teams", h.League.Teams)

	router.Route("/seasons/{season}", func(r chi.Router) {
		// websocket живёт дольше таймаута запросов
		r.Get("/ws", h.WebSocket.ServeWs)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(30 * time.Second))

			r.Get("/matches", h.Match.List)
			r.Get("/matches/{matchID}", h.Match.Get)
			r.Get("/finances", h.League.ListFinances)
			r.Get("/transactions", h.League.ListTransactions)
			r.Get("/players", h.League.ListPlayers)
			r.Get("/awards", h.League.ListAwards)
			r.Get("/dashboard", h.Dashboard.Stats)

			// Изменения только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(jwtSecret))
				r.Use(middleware.RequireAdmin)

				r.Post("/", h.League.InitSeason)
				r.Post("/matches", h.Match.Create)
				r.Put("/matches/{matchID}", h.Match.Update)
				r.Delete("/matches/{matchID}", h.Match.Delete)
				r.Post("/players", h.Roster.AddPlayer)
				r.Post("/bans", h.Roster.AddBan)
			})
		})
	})
}
