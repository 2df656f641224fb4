package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/hockeyscorer/internal/idgen"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// Log content for game lifecycle markers
const (
	contentGameStarted     = "Game Started"
	contentHalftimeStarted = "Halftime started"
	contentSecondHalf      = "Second half started"
)

// GameService is the state machine for the game in progress.
//
// Every change is saved before the in-memory state is replaced, so a reload
// never observes a state the caller was not told about. The mutex keeps
// mutating calls from interleaving.
type GameService struct {
	log         logger.Logger
	repo        GameRepository
	clock       clockwork.Clock
	ids         idgen.Generator
	playerIDs   idgen.Generator
	broadcaster Broadcaster

	mu     sync.Mutex
	state  models.CurrentGameState
	loaded bool
}

// NewGameService creates a new GameService. ids names log entries and
// finalized games; playerIDs names roster entries.
func NewGameService(log logger.Logger, repo GameRepository, clock clockwork.Clock, ids, playerIDs idgen.Generator) *GameService {
	return &GameService{
		log:       log,
		repo:      repo,
		clock:     clock,
		ids:       ids,
		playerIDs: playerIDs,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *GameService) broadcast(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(msgType, payload)
	}
}

// State returns a copy of the current game, loading it on first use
func (s *GameService) State(ctx context.Context) (models.CurrentGameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return models.CurrentGameState{}, err
	}
	return s.state.Clone(), nil
}

// ensureLoadedLocked reads the stored game once. A missing game is replaced
// by the defaults, and stored data that breaks the state rules is repaired
// and saved back.
func (s *GameService) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	stored, err := s.repo.LoadCurrentGameState(ctx)
	if err != nil {
		return fmt.Errorf("load game state: %w", err)
	}

	if stored == nil {
		state := models.NewGameState()
		if err := s.repo.SaveCurrentGameState(ctx, state); err != nil {
			return fmt.Errorf("save default game state: %w", err)
		}
		s.state = state
		s.loaded = true
		s.log.Info("Initialized default game")
		return nil
	}

	state := *stored
	storedStatus := state.GameStatus
	repaired := false
	if len(state.Teams) != 2 {
		s.log.Warn("Stored teams are unusable, restoring defaults", "teams", len(state.Teams))
		state.Teams = models.DefaultTeams()
		repaired = true
	}
	if models.RecomputeTotals(state.Teams) {
		repaired = true
	}
	if state.Normalize() {
		s.log.Warn("Repaired inconsistent game state",
			"half", state.CurrentHalf, "halftime", state.IsHalftime)
		repaired = true
	}
	if state.GameStatus != storedStatus {
		repaired = true
	}
	if repaired {
		if err := s.repo.SaveCurrentGameState(ctx, state); err != nil {
			return fmt.Errorf("save repaired game state: %w", err)
		}
	}

	s.state = state
	s.loaded = true
	return nil
}

// commitLocked saves next and only then makes it the current state
func (s *GameService) commitLocked(ctx context.Context, next models.CurrentGameState) error {
	return s.applyLocked(next, func(n models.CurrentGameState) error {
		return s.repo.SaveCurrentGameState(ctx, n)
	})
}

// applyLocked stores next with save and only then makes it the current state
func (s *GameService) applyLocked(next models.CurrentGameState, save func(models.CurrentGameState) error) error {
	next.Normalize()
	if err := save(next); err != nil {
		return err
	}
	s.state = next
	s.broadcast(MsgGameState, next.Clone())
	return nil
}

// newEntryLocked stamps entry with a fresh id and the current time
func (s *GameService) newEntryLocked(entry models.LogEntry) (models.LogEntry, error) {
	id, err := s.ids.NewID()
	if err != nil {
		return models.LogEntry{}, err
	}
	entry.ID = id
	entry.Timestamp = s.clock.Now().Format(models.TimestampLayout)
	return entry, nil
}

// appendLocked stores a new entry of the current game
func (s *GameService) appendLocked(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	entry, err := s.newEntryLocked(entry)
	if err != nil {
		return models.LogEntry{}, err
	}
	if err := s.repo.AddLogEntry(ctx, entry, nil); err != nil {
		return models.LogEntry{}, err
	}
	s.broadcast(MsgLogEntry, entry)
	return entry, nil
}

// CanStart reports whether a game can be started now
func (s *GameService) CanStart(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return false, err
	}
	return models.AllHavePlayers(s.state.Teams), nil
}

// StartGame begins a new game with the current rosters. All scores are
// reset and the log left over from an unfinished game is discarded.
func (s *GameService) StartGame(ctx context.Context) (models.CurrentGameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return models.CurrentGameState{}, err
	}
	if !models.AllHavePlayers(s.state.Teams) {
		return s.state.Clone(), ErrTeamsNeedPlayers
	}

	next := s.state.Clone()
	for i := range next.Teams {
		for j := range next.Teams[i].Players {
			next.Teams[i].Players[j].Score = 0
		}
	}
	next.GameActive = true
	next.IsHalftime = false
	next.CurrentHalf = 1
	next.Ended = false

	marker, err := s.newEntryLocked(models.LogEntry{
		Type:    models.LogTypeHalftime,
		Content: contentGameStarted,
	})
	if err != nil {
		return models.CurrentGameState{}, err
	}
	if err := s.applyLocked(next, func(n models.CurrentGameState) error {
		return s.repo.BeginGame(ctx, n, marker)
	}); err != nil {
		return models.CurrentGameState{}, fmt.Errorf("start game: %w", err)
	}
	s.broadcast(MsgLogUpdated, []models.LogEntry{})
	s.broadcast(MsgLogEntry, marker)

	s.log.Info("Game started", "home", next.Teams[0].Name, "away", next.Teams[1].Name)
	return s.state.Clone(), nil
}

// ToggleHalftime enters halftime from the first half, or starts the second
// half from halftime.
func (s *GameService) ToggleHalftime(ctx context.Context) (models.CurrentGameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return models.CurrentGameState{}, err
	}
	if !s.state.GameActive {
		return s.state.Clone(), ErrGameNotActive
	}

	next := s.state.Clone()
	var content string
	if next.IsHalftime {
		next.IsHalftime = false
		next.CurrentHalf = 2
		content = contentSecondHalf
	} else {
		if next.CurrentHalf >= 2 {
			return s.state.Clone(), ErrSecondHalfStarted
		}
		next.IsHalftime = true
		content = contentHalftimeStarted
	}

	entry, err := s.newEntryLocked(models.LogEntry{
		Type:    models.LogTypeHalftime,
		Content: content,
	})
	if err != nil {
		return models.CurrentGameState{}, err
	}
	if err := s.applyLocked(next, func(n models.CurrentGameState) error {
		return s.repo.SaveStateWithEntry(ctx, n, entry)
	}); err != nil {
		return models.CurrentGameState{}, err
	}
	s.broadcast(MsgLogEntry, entry)

	s.log.Info(content, "half", next.CurrentHalf)
	return s.state.Clone(), nil
}

// UpdateScore adds points, which may be negative, to a player. Scores never
// drop below zero. Outside of active play nothing happens and false is
// returned.
func (s *GameService) UpdateScore(ctx context.Context, teamID, playerID string, points int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return false, err
	}
	if !s.state.GameActive || s.state.IsHalftime {
		s.log.Debug("Ignoring score outside of play", "team_id", teamID, "player_id", playerID)
		return false, nil
	}

	next := s.state.Clone()
	ti, pi, err := findPlayer(next.Teams, teamID, playerID)
	if err != nil {
		return false, err
	}
	team := &next.Teams[ti]
	player := &team.Players[pi]

	entry := models.LogEntry{
		TeamID:     team.ID,
		TeamName:   team.Name,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Points:     points,
		Type:       models.LogTypeScore,
	}

	score := max(0, player.Score+points)
	if score == player.Score {
		if _, err := s.appendLocked(ctx, entry); err != nil {
			return false, err
		}
		return true, nil
	}
	player.Score = score
	models.RecomputeTotals(next.Teams)

	entry, err = s.newEntryLocked(entry)
	if err != nil {
		return false, err
	}
	if err := s.applyLocked(next, func(n models.CurrentGameState) error {
		return s.repo.SaveStateWithEntry(ctx, n, entry)
	}); err != nil {
		return false, err
	}
	s.broadcast(MsgLogEntry, entry)
	s.log.Debug("Score updated", "team", team.Name, "player", player.Name, "points", points, "score", score)
	return true, nil
}

// EndGame finalizes the game in progress into the history archive and files
// its log under the new game.
func (s *GameService) EndGame(ctx context.Context) (*models.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	if !s.state.GameActive {
		return nil, ErrGameNotActive
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, err
	}
	teams := models.CloneTeams(s.state.Teams)
	models.RecomputeTotals(teams)
	result := models.GameResult{
		ID:     id,
		Date:   s.clock.Now().Format(models.DateLayout),
		Teams:  teams,
		Winner: models.Winner(teams),
	}
	closing, err := s.newEntryLocked(models.LogEntry{
		Type:    models.LogTypeHalftime,
		Content: closingContent(result.Winner),
	})
	if err != nil {
		return nil, err
	}

	next := s.state.Clone()
	next.GameActive = false
	next.IsHalftime = false
	next.Ended = true

	var filed []string
	if err := s.applyLocked(next, func(n models.CurrentGameState) error {
		ids, err := s.repo.FinalizeGame(ctx, result, closing, n)
		filed = ids
		return err
	}); err != nil {
		return nil, fmt.Errorf("finalize game: %w", err)
	}
	s.broadcast(MsgLogUpdated, []models.LogEntry{})
	s.broadcast(MsgHistory, result)

	s.log.Info("Game ended", "game_id", result.ID, "winner", result.Winner,
		"entries", len(filed))
	return &result, nil
}

func closingContent(winner string) string {
	if winner == models.DrawResult {
		return "Game Ended - Draw!"
	}
	return fmt.Sprintf("Game Ended - %s wins!", winner)
}

// AddNote appends a free-text note to the game in progress
func (s *GameService) AddNote(ctx context.Context, content string) (*models.LogEntry, error) {
	content = trimNote(content)
	if content == "" {
		return nil, ErrEmptyNote
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	if !s.state.GameActive {
		return nil, ErrGameNotActive
	}

	entry, err := s.appendLocked(ctx, models.LogEntry{
		Type:    models.LogTypeNote,
		Content: content,
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
