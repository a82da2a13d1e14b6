package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
)

// Client wraps the database handle shared by the event and process repos.
type Client struct {
	db  *sql.DB
	log *zap.Logger
}

// NewClient opens a connection pool against the configured database and
// verifies connectivity.
func NewClient(ctx context.Context, cfg config.Database, log *zap.Logger) (*Client, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns))

	return &Client{db: db, log: log}, nil
}

// DB returns the underlying handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping checks if the database connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// InitSchema creates the tables if they don't exist.
func (c *Client) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS webhook_events (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	payload       JSONB NOT NULL,
	status        TEXT NOT NULL,
	received_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	processed_at  TIMESTAMPTZ,
	error_message TEXT
);
CREATE INDEX IF NOT EXISTS webhook_events_received_at_idx ON webhook_events (received_at DESC);

CREATE TABLE IF NOT EXISTS processes (
	code       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	script     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	c.log.Info("Database schema initialized successfully")
	return nil
}
