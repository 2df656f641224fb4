package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CompactResult describes one maintenance pass
type CompactResult struct {
	OrphansRemoved int64 `json:"orphansRemoved"`
	BytesBefore    int   `json:"bytesBefore"`
	BytesAfter     int   `json:"bytesAfter"`
}

// Compact deletes log entries filed under games that no longer exist,
// vacuums the database and persists the smaller image.
func (r *Repository) Compact(ctx context.Context) (*CompactResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := &CompactResult{BytesBefore: len(r.lastImage)}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, `
		DELETE FROM score_log
		WHERE game_history_id IS NOT NULL
		  AND game_history_id NOT IN (SELECT id FROM game_history)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("remove orphaned log entries: %w", err)
	}
	if result.OrphansRemoved, err = res.RowsAffected(); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	// VACUUM cannot run inside a transaction. The removal above is already
	// committed, so it is stored even when the vacuum fails.
	if err := r.vacuum(ctx, r.db); err != nil {
		if perr := r.persistLocked(ctx); perr != nil {
			return nil, errors.Join(err, perr)
		}
		return nil, err
	}
	if err := r.persistLocked(ctx); err != nil {
		return nil, err
	}
	result.BytesAfter = len(r.lastImage)

	r.log.Info("Database compacted",
		"orphans_removed", result.OrphansRemoved,
		"bytes_before", result.BytesBefore,
		"bytes_after", result.BytesAfter)
	return result, nil
}

func vacuum(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
