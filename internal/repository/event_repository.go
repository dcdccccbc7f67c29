package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fotomuro/api/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event models.Event) error {
	const query = `
		INSERT INTO events (id, name, path_prefix, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.PathPrefix,
	)
	return err
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (models.Event, error) {
	const query = `
		SELECT id, name, path_prefix, created_at
		FROM events WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var event models.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.PathPrefix,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) GetByPrefix(ctx context.Context, pathPrefix string) (models.Event, error) {
	const query = `
		SELECT id, name, path_prefix, created_at
		FROM events WHERE path_prefix = $1
	`

	row := r.pool.QueryRow(ctx, query, pathPrefix)
	var event models.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.PathPrefix,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, ErrEventNotFound
		}
		return models.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	const query = `
		SELECT id, name, path_prefix, created_at
		FROM events
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.PathPrefix,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
