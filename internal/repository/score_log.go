package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// AddLogEntry stores an entry. A nil gameID leaves the entry with the
// current game; otherwise it is filed under that finalized game.
func (r *Repository) AddLogEntry(ctx context.Context, entry models.LogEntry, gameID *string) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return r.insertLogTx(ctx, tx, entry, gameID)
	})
}

func (r *Repository) insertLogTx(ctx context.Context, tx *sql.Tx, entry models.LogEntry, gameID *string) error {
	if entry.ID == "" {
		return fmt.Errorf("log entry has no id")
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode log entry: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO score_log (id, entry_json, game_history_id, timestamp, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM score_log))
	`, entry.ID, string(entryJSON), nullable(gameID), r.now())
	return err
}

// LoadScoringLogForCurrentGame returns the current game's entries, newest first
func (r *Repository) LoadScoringLogForCurrentGame(ctx context.Context) ([]models.LogEntry, error) {
	return r.queryLog(ctx, `
		SELECT id, entry_json FROM score_log
		WHERE game_history_id IS NULL
		ORDER BY seq DESC
	`)
}

// LoadScoringLogForGame returns a finalized game's entries, oldest first
func (r *Repository) LoadScoringLogForGame(ctx context.Context, gameID string) ([]models.LogEntry, error) {
	return r.queryLog(ctx, `
		SELECT id, entry_json FROM score_log
		WHERE game_history_id = ?
		ORDER BY seq ASC
	`, gameID)
}

// queryLog decodes log rows. Rows that do not decode or carry no id are
// skipped with a warning rather than failing the whole load.
func (r *Repository) queryLog(ctx context.Context, query string, args ...any) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var (
			rowID     string
			entryJSON sql.NullString
		)
		if err := rows.Scan(&rowID, &entryJSON); err != nil {
			return nil, err
		}
		var entry models.LogEntry
		if err := json.Unmarshal([]byte(entryJSON.String), &entry); err != nil {
			r.log.Warn("Skipping unreadable log entry", "entry_id", rowID, "error", err)
			continue
		}
		if entry.ID == "" {
			r.log.Warn("Skipping log entry without id", "entry_id", rowID)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// AssociateScoreLogToGameHistory files the given entries under a finalized
// game in one step.
func (r *Repository) AssociateScoreLogToGameHistory(ctx context.Context, ids []string, gameID string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return associateTx(ctx, tx, ids, gameID)
	})
}

func associateTx(ctx context.Context, tx *sql.Tx, ids []string, gameID string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, gameID)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, `UPDATE score_log SET game_history_id = ? WHERE id IN (`+placeholders+`)`, args...)
	return err
}

// ClearUnassociatedScoreLog drops every entry of the current game
func (r *Repository) ClearUnassociatedScoreLog(ctx context.Context) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		return clearUnassociatedTx(ctx, tx)
	})
}

func clearUnassociatedTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM score_log WHERE game_history_id IS NULL`)
	return err
}

// EditGameNote replaces the content of a note and stamps it with the
// current time. A nil gameID addresses the current game. It reports false
// when there is no such note.
func (r *Repository) EditGameNote(ctx context.Context, id string, gameID *string, content string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		var entryJSON string
		err := tx.QueryRowContext(ctx, `
			SELECT entry_json FROM score_log WHERE id = ? AND game_history_id IS ?
		`, id, nullable(gameID)).Scan(&entryJSON)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		var entry models.LogEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			r.log.Warn("Refusing to edit unreadable log entry", "entry_id", id, "error", err)
			return nil
		}
		if entry.Type != models.LogTypeNote {
			return nil
		}
		entry.Content = content
		entry.Timestamp = r.now()

		b, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE score_log SET entry_json = ?, timestamp = ? WHERE id = ?
		`, string(b), entry.Timestamp, id); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteGameNote removes a note. A nil gameID addresses the current game.
// It reports false when there is no such note.
func (r *Repository) DeleteGameNote(ctx context.Context, id string, gameID *string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM score_log
			WHERE id = ? AND game_history_id IS ?
			  AND CASE WHEN json_valid(entry_json) THEN json_extract(entry_json, '$.type') END = 'note'
		`, id, nullable(gameID))
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

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
