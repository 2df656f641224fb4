package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/hockeyscorer/internal/errors"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
)

// LogService reads the scoring log and manages notes in it
type LogService struct {
	log         logger.Logger
	repo        repository.ScoreLogRepository
	broadcaster Broadcaster
}

// NewLogService creates a new LogService
func NewLogService(log logger.Logger, repo repository.ScoreLogRepository) *LogService {
	return &LogService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *LogService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CurrentLog returns the entries of the game in progress, newest first
func (s *LogService) CurrentLog(ctx context.Context) ([]models.LogEntry, error) {
	return s.repo.LoadScoringLogForCurrentGame(ctx)
}

// GameLog returns the entries of a finalized game, oldest first
func (s *LogService) GameLog(ctx context.Context, gameID string) ([]models.LogEntry, error) {
	return s.repo.LoadScoringLogForGame(ctx, gameID)
}

// EditNote replaces the content of a note and returns it as stored, with
// its new timestamp. A nil gameID addresses the game in progress.
func (s *LogService) EditNote(ctx context.Context, noteID string, gameID *string, content string) (*models.LogEntry, error) {
	content = trimNote(content)
	if content == "" {
		return nil, ErrEmptyNote
	}
	ok, err := s.repo.EditGameNote(ctx, noteID, gameID, content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotFoundf("note %s not found", noteID)
	}
	s.notify(ctx, gameID)

	var entries []models.LogEntry
	if gameID == nil {
		entries, err = s.repo.LoadScoringLogForCurrentGame(ctx)
	} else {
		entries, err = s.repo.LoadScoringLogForGame(ctx, *gameID)
	}
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == noteID {
			return &entries[i], nil
		}
	}
	return nil, errors.NotFoundf("note %s not found", noteID)
}

// DeleteNote removes a note. Other entry types cannot be deleted.
func (s *LogService) DeleteNote(ctx context.Context, noteID string, gameID *string) error {
	ok, err := s.repo.DeleteGameNote(ctx, noteID, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFoundf("note %s not found", noteID)
	}
	s.log.Info("Note deleted", "note_id", noteID)
	s.notify(ctx, gameID)
	return nil
}

// notify pushes the refreshed current log after a change to it
func (s *LogService) notify(ctx context.Context, gameID *string) {
	if s.broadcaster == nil || gameID != nil {
		return
	}
	entries, err := s.repo.LoadScoringLogForCurrentGame(ctx)
	if err != nil {
		s.log.Warn("Failed to reload log for broadcast", "error", err)
		return
	}
	s.broadcaster.BroadcastMessage(MsgLogUpdated, entries)
}

func trimNote(content string) string {
	return strings.TrimSpace(content)
}
