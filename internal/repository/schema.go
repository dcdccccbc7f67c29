package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the service depends on if they do not
// exist yet. Idempotent, safe to run on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS events (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    path_prefix TEXT NOT NULL UNIQUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS image_info (
    hash         TEXT PRIMARY KEY,
    event_prefix TEXT NOT NULL REFERENCES events (path_prefix),
    description  TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_image_info_event_prefix ON image_info (event_prefix);

CREATE TABLE IF NOT EXISTS logs (
    id         BIGSERIAL PRIMARY KEY,
    filename   TEXT NOT NULL,
    action     TEXT NOT NULL,
    from_folder TEXT NOT NULL DEFAULT '',
    to_folder   TEXT NOT NULL DEFAULT '',
    device      TEXT NOT NULL DEFAULT '',
    browser     TEXT NOT NULL DEFAULT '',
    os          TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    evento      TEXT NOT NULL DEFAULT '',
    moderator   TEXT NOT NULL DEFAULT '',
    timestamp   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_logs_evento ON logs (evento);
CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs (timestamp DESC);

CREATE TABLE IF NOT EXISTS moderators (
    email TEXT PRIMARY KEY
);
`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
