package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// DB is the shared pool. It stays nil when no database is configured, in which case
// results are not persisted.
var DB *pgxpool.Pool

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          UUID PRIMARY KEY,
	status      TEXT NOT NULL,
	winner      TEXT,
	ended_at    TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS game_results (
	game_id     UUID NOT NULL REFERENCES games(id),
	player_name TEXT NOT NULL,
	coins       INT NOT NULL,
	did_win     BOOLEAN NOT NULL,
	PRIMARY KEY (game_id, player_name)
);
CREATE TABLE IF NOT EXISTS game_actions (
	game_id        UUID NOT NULL,
	action_index   INT NOT NULL,
	actor          TEXT NOT NULL,
	action_type    TEXT NOT NULL,
	action_payload JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, action_index)
);
`

// ConnectDB opens the pool, checks connectivity and ensures the schema exists.
func ConnectDB(ctx context.Context, connStr string) error {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}

	DB = pool
	log.WithField("host", config.ConnConfig.Host).Info("connected to database")
	return nil
}

// Close releases the pool if one was opened.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
