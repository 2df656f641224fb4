package services

import (
	"context"

	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
)

// Message types pushed to live clients
const (
	MsgGameState  = "game_state"
	MsgLogEntry   = "log_entry"
	MsgLogUpdated = "log_updated"
	MsgHistory    = "history"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// GameRepository is the storage the game controller works against
type GameRepository interface {
	repository.GameStateRepository
	repository.HistoryRepository
	repository.ScoreLogRepository
	repository.GameFlowRepository
}

// GameServicer defines the interface for the game in progress
type GameServicer interface {
	State(ctx context.Context) (models.CurrentGameState, error)
	CanStart(ctx context.Context) (bool, error)
	StartGame(ctx context.Context) (models.CurrentGameState, error)
	ToggleHalftime(ctx context.Context) (models.CurrentGameState, error)
	UpdateScore(ctx context.Context, teamID, playerID string, points int) (bool, error)
	EndGame(ctx context.Context) (*models.GameResult, error)
	AddNote(ctx context.Context, content string) (*models.LogEntry, error)
	AddPlayer(ctx context.Context, teamID, name string) (*models.Player, error)
	RemovePlayer(ctx context.Context, teamID, playerID string) error
	SetPlayerActive(ctx context.Context, teamID, playerID string, active bool) error
	UpdateTeam(ctx context.Context, teamID, name string, color models.TeamColor) (*models.Team, error)
	SearchPlayers(ctx context.Context, query string) ([]PlayerMatch, error)
	SetBroadcaster(b Broadcaster)
}

// LogServicer defines the interface for reading the log and managing notes
type LogServicer interface {
	CurrentLog(ctx context.Context) ([]models.LogEntry, error)
	GameLog(ctx context.Context, gameID string) ([]models.LogEntry, error)
	EditNote(ctx context.Context, noteID string, gameID *string, content string) (*models.LogEntry, error)
	DeleteNote(ctx context.Context, noteID string, gameID *string) error
	SetBroadcaster(b Broadcaster)
}

// HistoryServicer defines the interface for finalized games
type HistoryServicer interface {
	List(ctx context.Context) ([]models.GameResult, error)
	Get(ctx context.Context, id string) (*models.GameResult, error)
	Update(ctx context.Context, id string, teams []models.TeamUpdate) (*models.GameResult, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, id string) (string, error)
	SetBroadcaster(b Broadcaster)
}

// ConsentServicer defines the interface for the storage consent flag
type ConsentServicer interface {
	HasConsent() (bool, error)
	GiveConsent() error
}

// ShareServicer defines the interface for sharing the scoreboard
type ShareServicer interface {
	ScoreboardURL() string
	QRCode(size int) ([]byte, error)
}

// Ensure concrete types implement interfaces
var (
	_ GameServicer    = (*GameService)(nil)
	_ LogServicer     = (*LogService)(nil)
	_ HistoryServicer = (*HistoryService)(nil)
	_ ConsentServicer = (*ConsentService)(nil)
	_ ShareServicer   = (*ShareService)(nil)
)
