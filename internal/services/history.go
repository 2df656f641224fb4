package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/abrezinsky/hockeyscorer/internal/errors"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
	"github.com/abrezinsky/hockeyscorer/internal/summary"
)

// HistoryRepository is the storage the history archive works against
type HistoryRepository interface {
	repository.HistoryRepository
	LoadScoringLogForGame(ctx context.Context, gameID string) ([]models.LogEntry, error)
}

// HistoryService manages finalized games
type HistoryService struct {
	log         logger.Logger
	repo        HistoryRepository
	broadcaster Broadcaster
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(log logger.Logger, repo HistoryRepository) *HistoryService {
	return &HistoryService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *HistoryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// List returns every finalized game, newest first
func (s *HistoryService) List(ctx context.Context) ([]models.GameResult, error) {
	return s.repo.LoadGameHistory(ctx)
}

// Get returns one finalized game
func (s *HistoryService) Get(ctx context.Context, id string) (*models.GameResult, error) {
	game, err := s.repo.GetCompletedGame(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NotFoundf("game %s not found", id)
	}
	return game, err
}

// Update renames or recolors the teams of a finalized game. Updates are
// matched to teams by id; empty fields keep the stored value. The winner is
// recomputed and the game's score entries pick up the new team names.
func (s *HistoryService) Update(ctx context.Context, id string, updates []models.TeamUpdate) (*models.GameResult, error) {
	for _, u := range updates {
		if u.Color != "" && !u.Color.Valid() {
			return nil, ErrInvalidColor
		}
	}

	game, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, u := range updates {
		ti := models.FindTeam(game.Teams, u.ID)
		if ti < 0 {
			continue
		}
		if name := strings.TrimSpace(u.Name); name != "" {
			game.Teams[ti].Name = name
		}
		if u.Color != "" {
			game.Teams[ti].Color = u.Color
		}
	}
	models.RecomputeTotals(game.Teams)
	game.Winner = models.Winner(game.Teams)

	ok, err := s.repo.UpdateCompletedGame(ctx, id, *game)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotFoundf("game %s not found", id)
	}

	s.log.Info("Game updated", "game_id", id, "winner", game.Winner)
	s.notify(ctx)
	return game, nil
}

// Delete removes a finalized game and its log
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.DeleteGameFromHistory(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFoundf("game %s not found", id)
	}
	s.log.Info("Game deleted", "game_id", id)
	s.notify(ctx)
	return nil
}

// Summary renders a finalized game as shareable text
func (s *HistoryService) Summary(ctx context.Context, id string) (string, error) {
	game, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	entries, err := s.repo.LoadScoringLogForGame(ctx, id)
	if err != nil {
		return "", err
	}
	return summary.FormatGameSummary(*game, entries), nil
}

func (s *HistoryService) notify(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	games, err := s.repo.LoadGameHistory(ctx)
	if err != nil {
		s.log.Warn("Failed to reload history for broadcast", "error", err)
		return
	}
	s.broadcaster.BroadcastMessage(MsgHistory, games)
}
