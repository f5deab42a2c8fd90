package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/Dosada05/knockout-cup/docs" // регистрирует OpenAPI документ
	"github.com/Dosada05/knockout-cup/handlers"
	"github.com/Dosada05/knockout-cup/middleware"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.NotFound(handlers.NotFoundHandler)

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/token", authHandler.Token)

	// WebSocket не проходит через таймаут запросов.
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		// Публичные маршруты для просмотра турниров
		r.Get("/", tournamentHandler.ListHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/groups/{groupID}/standings", tournamentHandler.StandingsHandler)
			r.Get("/bracket", tournamentHandler.BracketHandler)
			r.Get("/champion", tournamentHandler.ChampionHandler)
			r.Get("/events", tournamentHandler.EventsHandler)

			// Защищенные маршруты только для организатора
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Delete("/", tournamentHandler.DeleteHandler)
				r.Put("/matches/{matchID}/result", tournamentHandler.UpdateMatchResultHandler)
				r.Post("/reset", tournamentHandler.ResetHandler)
			})
		})

		r.With(authenticate).Post("/", tournamentHandler.CreateHandler)
	})
}
