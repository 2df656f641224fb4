package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// LoadCurrentGameState returns the stored current game, or nil when none has
// been saved yet. Teams JSON that does not decode is reported as nil teams
// so the caller can fall back to defaults.
func (r *Repository) LoadCurrentGameState(ctx context.Context) (*models.CurrentGameState, error) {
	var (
		teamsJSON sql.NullString
		active    sql.NullBool
		halftime  sql.NullBool
		half      sql.NullInt64
		status    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT teams_json, game_active, is_halftime, current_half, game_status
		FROM current_game_state
		WHERE id = 1
	`).Scan(&teamsJSON, &active, &halftime, &half, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &models.CurrentGameState{
		GameActive:  active.Bool,
		IsHalftime:  halftime.Bool,
		CurrentHalf: int(half.Int64),
		GameStatus:  models.GameStatus(status.String),
	}
	// Inactive looks the same before and after a game; the stored status
	// is the only thing that tells them apart.
	state.Ended = !state.GameActive && state.GameStatus == models.StatusFinal

	if teamsJSON.Valid && teamsJSON.String != "" {
		teams, err := decodeTeams(teamsJSON.String)
		if err != nil {
			r.log.Warn("Stored teams are unreadable", "error", err)
		} else {
			state.Teams = teams
		}
	}
	return state, nil
}

// SaveCurrentGameState replaces the stored current game
func (r *Repository) SaveCurrentGameState(ctx context.Context, state models.CurrentGameState) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return r.saveStateTx(ctx, tx, state)
	})
}

func (r *Repository) saveStateTx(ctx context.Context, tx *sql.Tx, state models.CurrentGameState) error {
	teamsJSON, err := json.Marshal(state.Teams)
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	status := models.DeriveStatus(state.GameActive, state.IsHalftime, state.CurrentHalf, state.Ended)

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO current_game_state
			(id, teams_json, game_active, is_halftime, current_half, game_status, timestamp)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, string(teamsJSON), state.GameActive, state.IsHalftime, state.CurrentHalf, string(status), r.now())
	return err
}

// decodeTeams decodes a stored team list. Players stored without an active
// flag are treated as active.
func decodeTeams(s string) ([]models.Team, error) {
	var raw []struct {
		models.Team
		Players []struct {
			models.Player
			Active *bool `json:"active"`
		} `json:"players"`
	}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}

	teams := make([]models.Team, len(raw))
	for i, t := range raw {
		teams[i] = t.Team
		teams[i].Players = make([]models.Player, len(t.Players))
		for j, p := range t.Players {
			teams[i].Players[j] = p.Player
			teams[i].Players[j].Active = p.Active == nil || *p.Active
		}
	}
	return teams, nil
}
