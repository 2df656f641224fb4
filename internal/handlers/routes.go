package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	r.Get("/healthz", h.handleHealth)

	if h.Live != nil {
		r.Get("/ws", h.Live.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		// Game in progress
		r.Get("/game", h.handleGetGame)
		r.Post("/game/start", h.handleStartGame)
		r.Post("/game/halftime", h.handleToggleHalftime)
		r.Post("/game/end", h.handleEndGame)

		// Rosters
		r.Put("/teams/{teamID}", h.handleUpdateTeam)
		r.Post("/teams/{teamID}/players", h.handleAddPlayer)
		r.Delete("/teams/{teamID}/players/{playerID}", h.handleRemovePlayer)
		r.Put("/teams/{teamID}/players/{playerID}/active", h.handleSetPlayerActive)
		r.Post("/teams/{teamID}/players/{playerID}/score", h.handleUpdateScore)
		r.Get("/players/search", h.handleSearchPlayers)

		// Log of the game in progress
		r.Get("/log", h.handleGetCurrentLog)
		r.Post("/log/notes", h.handleAddNote)
		r.Put("/log/notes/{noteID}", h.handleEditCurrentNote)
		r.Delete("/log/notes/{noteID}", h.handleDeleteCurrentNote)

		// History
		r.Get("/history", h.handleListHistory)
		r.Get("/history/{id}", h.handleGetHistoryGame)
		r.Put("/history/{id}", h.handleUpdateHistoryGame)
		r.Delete("/history/{id}", h.handleDeleteHistoryGame)
		r.Get("/history/{id}/log", h.handleGetHistoryLog)
		r.Get("/history/{id}/summary", h.handleGetHistorySummary)
		r.Put("/history/{id}/notes/{noteID}", h.handleEditHistoryNote)
		r.Delete("/history/{id}/notes/{noteID}", h.handleDeleteHistoryNote)

		// Storage consent
		r.Get("/consent", h.handleGetConsent)
		r.Post("/consent", h.handleGiveConsent)

		// Sharing
		r.Get("/share", h.handleGetShare)
		r.Get("/share/qr", h.handleGetShareQR)
	})

	return r
}
