package repository

import (
	"context"
	"database/sql"

	"github.com/abrezinsky/hockeyscorer/internal/models"
)

// BeginGame saves the state of a newly started game, drops whatever log an
// unfinished game left behind and records the start marker, all in one
// transaction.
func (r *Repository) BeginGame(ctx context.Context, state models.CurrentGameState, marker models.LogEntry) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		if err := r.saveStateTx(ctx, tx, state); err != nil {
			return err
		}
		if err := clearUnassociatedTx(ctx, tx); err != nil {
			return err
		}
		return r.insertLogTx(ctx, tx, marker, nil)
	})
}

// SaveStateWithEntry saves the current game together with a new entry of
// its log.
func (r *Repository) SaveStateWithEntry(ctx context.Context, state models.CurrentGameState, entry models.LogEntry) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		if err := r.insertLogTx(ctx, tx, entry, nil); err != nil {
			return err
		}
		return r.saveStateTx(ctx, tx, state)
	})
}

// FinalizeGame archives result, files every entry of the current game under
// it, adds the closing entry and saves state in one transaction. Either all
// of it is stored or none of it is. It returns the ids of the entries that
// were filed, oldest first.
func (r *Repository) FinalizeGame(ctx context.Context, result models.GameResult, closing models.LogEntry, state models.CurrentGameState) ([]string, error) {
	var filed []string
	err := r.mutate(ctx, func(tx *sql.Tx) error {
		if err := r.insertGameTx(ctx, tx, result); err != nil {
			return err
		}

		ids, err := unassociatedIDsTx(ctx, tx)
		if err != nil {
			return err
		}
		if err := associateTx(ctx, tx, ids, result.ID); err != nil {
			return err
		}
		if err := r.insertLogTx(ctx, tx, closing, &result.ID); err != nil {
			return err
		}
		if err := r.saveStateTx(ctx, tx, state); err != nil {
			return err
		}
		filed = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filed, nil
}

func unassociatedIDsTx(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM score_log WHERE game_history_id IS NULL ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
