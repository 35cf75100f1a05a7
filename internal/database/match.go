// internal/database/match.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/landgrab/internal/models"
)

// MatchRepo records match outcomes and turn history.
type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// RecordMatchResult upserts the final snapshot of a finished match. winnerID may be empty for a draw.
func (r *MatchRepo) RecordMatchResult(ctx context.Context, state models.GameState, winnerID string) error {
	finalState, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal final state: %w", err)
	}
	var winner *string
	if winnerID != "" {
		winner = &winnerID
	}

	q := `
		INSERT INTO matches (id, status, winner_id, turns, final_state, end_time)
		VALUES ($1, 'completed', $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET status = 'completed', winner_id = $2, turns = $3, final_state = $4, end_time = NOW()
	`
	err = pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, state.MatchID, winner, state.Turn, finalState)
		return e
	})
	if err != nil {
		return fmt.Errorf("storing final match state in DB: %w", err)
	}
	return nil
}

// InsertTurnRecords writes a batch of turn records in one transaction, creating match rows as needed.
// A record for a match that reached GAME_OVER also marks the match completed.
func (r *MatchRepo) InsertTurnRecords(ctx context.Context, records []models.TurnRecord) error {
	if len(records) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertTurnTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert resolution %d of %s: %w", rec.Seq, rec.MatchID, err)
			}
		}
		return nil
	})
}

func insertTurnTx(ctx context.Context, tx pgx.Tx, rec models.TurnRecord) error {
	upsertMatchQ := `
		INSERT INTO matches (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertMatchQ, rec.MatchID); err != nil {
		return err
	}

	actions, err := json.Marshal(rec.Actions)
	if err != nil {
		return err
	}
	players, err := json.Marshal(rec.Players)
	if err != nil {
		return err
	}
	turnQ := `
		INSERT INTO match_turns (match_id, seq, turn, phase, actions, players, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, seq) DO NOTHING
	`
	loggedAt := time.UnixMilli(rec.Timestamp)
	if _, err := tx.Exec(ctx, turnQ, rec.MatchID, rec.Seq, rec.Turn, string(rec.Phase), actions, players, loggedAt); err != nil {
		return err
	}

	if rec.Phase == models.PhaseGameOver {
		finalizeQ := `
			UPDATE matches
			SET status = 'completed', turns = $2, end_time = COALESCE(end_time, NOW())
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.MatchID, rec.Turn); err != nil {
			return err
		}
	}
	return nil
}

// MarkAbandoned marks an in-progress match as abandoned.
func (r *MatchRepo) MarkAbandoned(ctx context.Context, matchID string) error {
	q := `
		UPDATE matches
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	if _, err := r.pool.Exec(ctx, q, matchID); err != nil {
		return fmt.Errorf("failed to mark match %s abandoned: %w", matchID, err)
	}
	return nil
}
