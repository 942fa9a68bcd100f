package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tarujar/kantalakyykka/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	gameTypeHandler *handlers.GameTypeHandler,
	playerHandler *handlers.PlayerHandler,
	seriesHandler *handlers.SeriesHandler,
	registrationHandler *handlers.RegistrationHandler,
	gameHandler *handlers.GameHandler,
	scoreSheetHandler *handlers.ScoreSheetHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/game-types", func(r chi.Router) {
		r.Get("/", gameTypeHandler.GetAllGameTypes)
		r.Post("/", gameTypeHandler.CreateGameType)
		r.Get("/{gameTypeID}", gameTypeHandler.GetGameTypeByID)
		r.Put("/{gameTypeID}", gameTypeHandler.UpdateGameType)
		r.Delete("/{gameTypeID}", gameTypeHandler.DeleteGameType)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.GetAllPlayers)
		r.Post("/", playerHandler.CreatePlayer)
		r.Get("/{playerID}", playerHandler.GetPlayerByID)
		r.Put("/{playerID}", playerHandler.UpdatePlayer)
		r.Delete("/{playerID}", playerHandler.DeletePlayer)
	})

	router.Route("/series", func(r chi.Router) {
		r.Get("/", seriesHandler.ListSeries)
		r.Post("/", seriesHandler.CreateSeries)
		r.Get("/{seriesID}", seriesHandler.GetSeriesByID)
		r.Put("/{seriesID}", seriesHandler.UpdateSeries)
		r.Delete("/{seriesID}", seriesHandler.DeleteSeries)
		r.Get("/{seriesID}/registrations", registrationHandler.ListBySeries)
		r.Post("/{seriesID}/registrations", registrationHandler.RegisterEntry)
	})

	router.Route("/registrations", func(r chi.Router) {
		r.Get("/{registrationID}", registrationHandler.GetRegistrationByID)
		r.Put("/{registrationID}", registrationHandler.UpdateRegistration)
		r.Delete("/{registrationID}", registrationHandler.DeleteRegistration)
		r.Get("/{registrationID}/roster", registrationHandler.GetRoster)
		r.Post("/{registrationID}/roster", registrationHandler.AddRosterPlayer)
		r.Delete("/{registrationID}/roster/{playerID}", registrationHandler.RemoveRosterPlayer)
		r.Post("/{registrationID}/logo", registrationHandler.UploadLogo)
		r.Delete("/{registrationID}/logo", registrationHandler.RemoveLogo)
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/", gameHandler.ListGames)
		r.Post("/", gameHandler.CreateGame)
		r.Get("/{gameID}", gameHandler.GetGameByID)
		r.Put("/{gameID}", gameHandler.UpdateGame)
		r.Delete("/{gameID}", gameHandler.DeleteGame)
		r.Get("/{gameID}/scoresheet", scoreSheetHandler.GetScoreSheet)
		r.Put("/{gameID}/scoresheet", scoreSheetHandler.PutScoreSheet)
	})

	router.Get("/ws/games/{gameID}", webSocketHandler.ServeGame)
}
