package handlers

import "github.com/abrezinsky/hockeyscorer/internal/models"

// PlayerCreateRequest represents a request to add a player to a team
type PlayerCreateRequest struct {
	Name string `json:"name"`
}

// PlayerActiveRequest represents a request to bench or unbench a player
type PlayerActiveRequest struct {
	Active bool `json:"active"`
}

// TeamUpdateRequest represents a request to rename or recolor a team
type TeamUpdateRequest struct {
	Name  string           `json:"name"`
	Color models.TeamColor `json:"color"`
}

// ScoreRequest represents a request to change a player's score
type ScoreRequest struct {
	Points int `json:"points"`
}

// NoteRequest represents a request to add or edit a note
type NoteRequest struct {
	Content string `json:"content"`
}

// HistoryUpdateRequest represents a request to edit a finalized game's teams
type HistoryUpdateRequest struct {
	Teams []models.TeamUpdate `json:"teams"`
}
