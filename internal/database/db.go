package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDeckNotFound is returned when no deck with the given owner and id exists.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrInvalidDeck is returned for malformed deck input.
	ErrInvalidDeck = errors.New("invalid deck")
)

// ConnectDB opens a pgx pool for connStr and verifies it with a ping.
func ConnectDB(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS decks (
	owner_id   TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	name       TEXT        NOT NULL,
	cards      JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (owner_id, id)
);

CREATE TABLE IF NOT EXISTS matches (
	id          TEXT PRIMARY KEY,
	status      TEXT        NOT NULL DEFAULT 'in_progress',
	winner_id   TEXT,
	turns       INT         NOT NULL DEFAULT 0,
	final_state JSONB,
	start_time  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	end_time    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS match_turns (
	match_id  TEXT        NOT NULL REFERENCES matches (id) ON DELETE CASCADE,
	seq       INT         NOT NULL,
	turn      INT         NOT NULL,
	phase     TEXT        NOT NULL,
	actions   JSONB       NOT NULL,
	players   JSONB       NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (match_id, seq)
);
`

// EnsureSchema creates the tables this service uses if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
