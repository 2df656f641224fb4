package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// SaveCompletedGame inserts a finalized game. Ids are never reused.
func (r *Repository) SaveCompletedGame(ctx context.Context, result models.GameResult) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return r.insertGameTx(ctx, tx, result)
	})
}

func (r *Repository) insertGameTx(ctx context.Context, tx *sql.Tx, result models.GameResult) error {
	teamsJSON, err := json.Marshal(result.Teams)
	if err != nil {
		return fmt.Errorf("encode teams: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_history (id, date, teams_json, winner, timestamp, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM game_history))
	`, result.ID, result.Date, string(teamsJSON), result.Winner, r.now())
	return err
}

// GetCompletedGame returns one finalized game, or ErrNotFound. A game whose
// teams cannot be decoded is reported as not found, the same way
// LoadGameHistory leaves it out.
func (r *Repository) GetCompletedGame(ctx context.Context, id string) (*models.GameResult, error) {
	var date, teamsJSON, winner sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT date, teams_json, winner FROM game_history WHERE id = ?
	`, id).Scan(&date, &teamsJSON, &winner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	teams, err := decodeTeams(teamsJSON.String)
	if err != nil {
		r.log.Warn("Stored game is unreadable", "game_id", id, "error", err)
		return nil, ErrNotFound
	}
	return &models.GameResult{ID: id, Date: date.String, Teams: teams, Winner: winner.String}, nil
}

// LoadGameHistory returns every finalized game, newest first. Rows whose
// teams cannot be decoded are skipped.
func (r *Repository) LoadGameHistory(ctx context.Context) ([]models.GameResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, teams_json, winner
		FROM game_history
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []models.GameResult{}
	for rows.Next() {
		var (
			id                      string
			date, teamsJSON, winner sql.NullString
		)
		if err := rows.Scan(&id, &date, &teamsJSON, &winner); err != nil {
			return nil, err
		}
		teams, err := decodeTeams(teamsJSON.String)
		if err != nil {
			r.log.Warn("Skipping unreadable game", "game_id", id, "error", err)
			continue
		}
		games = append(games, models.GameResult{ID: id, Date: date.String, Teams: teams, Winner: winner.String})
	}
	return games, rows.Err()
}

// UpdateCompletedGame replaces the teams and winner of a finalized game and
// rewrites the team names of its score entries to match. It reports false
// when no game has the id.
func (r *Repository) UpdateCompletedGame(ctx context.Context, id string, result models.GameResult) (bool, error) {
	teamsJSON, err := json.Marshal(result.Teams)
	if err != nil {
		return false, fmt.Errorf("encode teams: %w", err)
	}

	found := false
	err = r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE game_history SET teams_json = ?, winner = ? WHERE id = ?
		`, string(teamsJSON), result.Winner, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		found = true
		return reconcileLog(ctx, tx, id, result.Teams)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// reconcileLog rewrites team names on the score entries of a game
func reconcileLog(ctx context.Context, tx *sql.Tx, gameID string, teams []models.Team) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, entry_json FROM score_log WHERE game_history_id = ?
	`, gameID)
	if err != nil {
		return err
	}

	updates := map[string]string{}
	for rows.Next() {
		var id, entryJSON string
		if err := rows.Scan(&id, &entryJSON); err != nil {
			rows.Close()
			return err
		}
		var entry models.LogEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			continue
		}
		if !entry.ReconcileTeam(teams) {
			continue
		}
		b, err := json.Marshal(entry)
		if err != nil {
			rows.Close()
			return err
		}
		updates[id] = string(b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for id, entryJSON := range updates {
		if _, err := tx.ExecContext(ctx, `
			UPDATE score_log SET entry_json = ? WHERE id = ?
		`, entryJSON, id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGameFromHistory removes a finalized game together with its log
// entries. It reports false when no game has the id.
func (r *Repository) DeleteGameFromHistory(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM score_log WHERE game_history_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM game_history WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
