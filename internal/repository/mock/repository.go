package mock

import (
	"context"

	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveCurrentGameStateError = errors.New("quota exceeded")
//	svc := services.NewGameService(log, mockRepo, clock, ids, nil)
//	err := svc.StartGame(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Game State Errors =====
	LoadCurrentGameStateError error
	SaveCurrentGameStateError error

	// ===== History Errors =====
	SaveCompletedGameError     error
	GetCompletedGameError      error
	LoadGameHistoryError       error
	UpdateCompletedGameError   error
	DeleteGameFromHistoryError error

	// ===== Score Log Errors =====
	AddLogEntryError                    error
	LoadScoringLogForCurrentGameError   error
	LoadScoringLogForGameError          error
	AssociateScoreLogToGameHistoryError error
	ClearUnassociatedScoreLogError      error
	EditGameNoteError                   error
	DeleteGameNoteError                 error

	// ===== Game Flow Errors =====
	BeginGameError          error
	SaveStateWithEntryError error
	FinalizeGameError       error

	// ===== Maintenance Errors =====
	CompactError error
	PingError    error

	// SaveCurrentGameStateCalls counts saves that reached the real repository
	SaveCurrentGameStateCalls int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Game State Methods =====

func (m *Repository) LoadCurrentGameState(ctx context.Context) (*models.CurrentGameState, error) {
	if m.LoadCurrentGameStateError != nil {
		return nil, m.LoadCurrentGameStateError
	}
	return m.FullRepository.LoadCurrentGameState(ctx)
}

func (m *Repository) SaveCurrentGameState(ctx context.Context, state models.CurrentGameState) error {
	if m.SaveCurrentGameStateError != nil {
		return m.SaveCurrentGameStateError
	}
	m.SaveCurrentGameStateCalls++
	return m.FullRepository.SaveCurrentGameState(ctx, state)
}

// ===== History Methods =====

func (m *Repository) SaveCompletedGame(ctx context.Context, result models.GameResult) error {
	if m.SaveCompletedGameError != nil {
		return m.SaveCompletedGameError
	}
	return m.FullRepository.SaveCompletedGame(ctx, result)
}

func (m *Repository) GetCompletedGame(ctx context.Context, id string) (*models.GameResult, error) {
	if m.GetCompletedGameError != nil {
		return nil, m.GetCompletedGameError
	}
	return m.FullRepository.GetCompletedGame(ctx, id)
}

func (m *Repository) LoadGameHistory(ctx context.Context) ([]models.GameResult, error) {
	if m.LoadGameHistoryError != nil {
		return nil, m.LoadGameHistoryError
	}
	return m.FullRepository.LoadGameHistory(ctx)
}

func (m *Repository) UpdateCompletedGame(ctx context.Context, id string, result models.GameResult) (bool, error) {
	if m.UpdateCompletedGameError != nil {
		return false, m.UpdateCompletedGameError
	}
	return m.FullRepository.UpdateCompletedGame(ctx, id, result)
}

func (m *Repository) DeleteGameFromHistory(ctx context.Context, id string) (bool, error) {
	if m.DeleteGameFromHistoryError != nil {
		return false, m.DeleteGameFromHistoryError
	}
	return m.FullRepository.DeleteGameFromHistory(ctx, id)
}

// ===== Score Log Methods =====

func (m *Repository) AddLogEntry(ctx context.Context, entry models.LogEntry, gameID *string) error {
	if m.AddLogEntryError != nil {
		return m.AddLogEntryError
	}
	return m.FullRepository.AddLogEntry(ctx, entry, gameID)
}

func (m *Repository) LoadScoringLogForCurrentGame(ctx context.Context) ([]models.LogEntry, error) {
	if m.LoadScoringLogForCurrentGameError != nil {
		return nil, m.LoadScoringLogForCurrentGameError
	}
	return m.FullRepository.LoadScoringLogForCurrentGame(ctx)
}

func (m *Repository) LoadScoringLogForGame(ctx context.Context, gameID string) ([]models.LogEntry, error) {
	if m.LoadScoringLogForGameError != nil {
		return nil, m.LoadScoringLogForGameError
	}
	return m.FullRepository.LoadScoringLogForGame(ctx, gameID)
}

func (m *Repository) AssociateScoreLogToGameHistory(ctx context.Context, ids []string, gameID string) error {
	if m.AssociateScoreLogToGameHistoryError != nil {
		return m.AssociateScoreLogToGameHistoryError
	}
	return m.FullRepository.AssociateScoreLogToGameHistory(ctx, ids, gameID)
}

func (m *Repository) ClearUnassociatedScoreLog(ctx context.Context) error {
	if m.ClearUnassociatedScoreLogError != nil {
		return m.ClearUnassociatedScoreLogError
	}
	return m.FullRepository.ClearUnassociatedScoreLog(ctx)
}

func (m *Repository) EditGameNote(ctx context.Context, id string, gameID *string, content string) (bool, error) {
	if m.EditGameNoteError != nil {
		return false, m.EditGameNoteError
	}
	return m.FullRepository.EditGameNote(ctx, id, gameID, content)
}

func (m *Repository) DeleteGameNote(ctx context.Context, id string, gameID *string) (bool, error) {
	if m.DeleteGameNoteError != nil {
		return false, m.DeleteGameNoteError
	}
	return m.FullRepository.DeleteGameNote(ctx, id, gameID)
}

// ===== Game Flow Methods =====

func (m *Repository) BeginGame(ctx context.Context, state models.CurrentGameState, marker models.LogEntry) error {
	if m.BeginGameError != nil {
		return m.BeginGameError
	}
	return m.FullRepository.BeginGame(ctx, state, marker)
}

func (m *Repository) SaveStateWithEntry(ctx context.Context, state models.CurrentGameState, entry models.LogEntry) error {
	if m.SaveStateWithEntryError != nil {
		return m.SaveStateWithEntryError
	}
	return m.FullRepository.SaveStateWithEntry(ctx, state, entry)
}

func (m *Repository) FinalizeGame(ctx context.Context, result models.GameResult, closing models.LogEntry, state models.CurrentGameState) ([]string, error) {
	if m.FinalizeGameError != nil {
		return nil, m.FinalizeGameError
	}
	return m.FullRepository.FinalizeGame(ctx, result, closing, state)
}

// ===== Maintenance Methods =====

func (m *Repository) Compact(ctx context.Context) (*repository.CompactResult, error) {
	if m.CompactError != nil {
		return nil, m.CompactError
	}
	return m.FullRepository.Compact(ctx)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}
