package repository

import (
	"context"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// GameStateRepository stores the single in-progress game
type GameStateRepository interface {
	LoadCurrentGameState(ctx context.Context) (*models.CurrentGameState, error)
	SaveCurrentGameState(ctx context.Context, state models.CurrentGameState) error
}

// HistoryRepository stores finalized games
type HistoryRepository interface {
	SaveCompletedGame(ctx context.Context, result models.GameResult) error
	GetCompletedGame(ctx context.Context, id string) (*models.GameResult, error)
	LoadGameHistory(ctx context.Context) ([]models.GameResult, error)
	UpdateCompletedGame(ctx context.Context, id string, result models.GameResult) (bool, error)
	DeleteGameFromHistory(ctx context.Context, id string) (bool, error)
}

// ScoreLogRepository stores log entries for the current and finalized games
type ScoreLogRepository interface {
	AddLogEntry(ctx context.Context, entry models.LogEntry, gameID *string) error
	LoadScoringLogForCurrentGame(ctx context.Context) ([]models.LogEntry, error)
	LoadScoringLogForGame(ctx context.Context, gameID string) ([]models.LogEntry, error)
	AssociateScoreLogToGameHistory(ctx context.Context, ids []string, gameID string) error
	ClearUnassociatedScoreLog(ctx context.Context) error
	EditGameNote(ctx context.Context, id string, gameID *string, content string) (bool, error)
	DeleteGameNote(ctx context.Context, id string, gameID *string) (bool, error)
}

// GameFlowRepository stores the game transitions that change the state and
// the log together
type GameFlowRepository interface {
	BeginGame(ctx context.Context, state models.CurrentGameState, marker models.LogEntry) error
	SaveStateWithEntry(ctx context.Context, state models.CurrentGameState, entry models.LogEntry) error
	FinalizeGame(ctx context.Context, result models.GameResult, closing models.LogEntry, state models.CurrentGameState) ([]string, error)
}

// MaintenanceRepository covers housekeeping of the stored image
type MaintenanceRepository interface {
	Compact(ctx context.Context) (*CompactResult, error)
	Ping(ctx context.Context) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	GameStateRepository
	HistoryRepository
	ScoreLogRepository
	GameFlowRepository
	MaintenanceRepository
}

// Compile-time check that Repository implements FullRepository
var _ FullRepository = (*Repository)(nil)
