package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fotomuro/api/internal/models"
)

// LogRepository appends to and reads the audit trail. Entries are never
// updated or removed.
type LogRepository struct {
	pool *pgxpool.Pool
}

func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

func (r *LogRepository) Append(ctx context.Context, entry models.LogEntry) error {
	const query = `
		INSERT INTO logs (
			filename, action, from_folder, to_folder, device, browser, os,
			location, evento, moderator, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		entry.Filename,
		entry.Action,
		entry.From,
		entry.To,
		entry.Device,
		entry.Browser,
		entry.OS,
		entry.Location,
		entry.Evento,
		entry.Moderator,
	)
	return err
}

type LogFilter struct {
	Evento    string
	Moderator string
	Action    string
	Limit     int
}

// List returns matching entries newest first. Empty filter fields match
// everything.
func (r *LogRepository) List(ctx context.Context, filter LogFilter) ([]models.LogEntry, error) {
	const query = `
		SELECT id, filename, action, from_folder, to_folder, device, browser,
		       os, location, evento, moderator, timestamp
		FROM logs
		WHERE ($1 = '' OR evento = $1)
		  AND ($2 = '' OR moderator = $2)
		  AND ($3 = '' OR action = $3)
		ORDER BY timestamp DESC
		LIMIT $4
	`

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 500
	}

	rows, err := r.pool.Query(ctx, query, filter.Evento, filter.Moderator, filter.Action, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Filename,
			&entry.Action,
			&entry.From,
			&entry.To,
			&entry.Device,
			&entry.Browser,
			&entry.OS,
			&entry.Location,
			&entry.Evento,
			&entry.Moderator,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
