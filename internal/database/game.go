// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/tbg/internal/cache"
)

// RecordGameResult persists the final coin totals of a completed game.
func RecordGameResult(ctx context.Context, gameID uuid.UUID, winner string, scores map[string]int) error {
	if DB == nil {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status, winner, ended_at)
			VALUES ($1, 'completed', $2, $3)
			ON CONFLICT (id) DO UPDATE SET status = 'completed', winner = $2, ended_at = $3
		`
		if _, e := tx.Exec(ctx, upsertGame, gameID, winner, time.Now()); e != nil {
			return e
		}

		q := `
			INSERT INTO game_results (game_id, player_name, coins, did_win)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (game_id, player_name)
			DO UPDATE SET coins = $3, did_win = $4
		`
		for name, coins := range scores {
			if _, e := tx.Exec(ctx, q, gameID, name, coins, name == winner); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert game or results: %w", err)
	}
	return nil
}

// InsertGameActions writes a batch of action-log records. Records already stored are skipped.
func InsertGameActions(ctx context.Context, records []cache.GameActionRecord) error {
	if DB == nil || len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	q := `
		INSERT INTO game_actions (game_id, action_index, actor, action_type, action_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	for _, rec := range records {
		payload, err := json.Marshal(rec.ActionPayload)
		if err != nil {
			return fmt.Errorf("marshal payload for action %d of game %s: %w", rec.ActionIndex, rec.GameID, err)
		}
		batch.Queue(q, rec.GameID, rec.ActionIndex, rec.Actor, rec.ActionType, payload, time.UnixMilli(rec.Timestamp))
	}

	br := DB.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert game action: %w", err)
		}
	}
	return nil
}
