package handlers

import "github.com/abrezinsky/hockeyscorer/internal/models"

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// GameResponse is the current game together with what the UI may offer
type GameResponse struct {
	models.CurrentGameState
	CanStart bool `json:"canStart"`
}

// ScoreResponse is the response for a score change
type ScoreResponse struct {
	Changed bool                    `json:"changed"`
	Game    models.CurrentGameState `json:"game"`
}

// ConsentResponse is the response for the storage consent flag
type ConsentResponse struct {
	Consent bool `json:"consent"`
}

// ShareResponse describes where the scoreboard can be opened
type ShareResponse struct {
	URL string `json:"url"`
}
