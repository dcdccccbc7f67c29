package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fotomuro/api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

// ImageRepository persists the metadata row keyed by the content hash.
// The hash is globally unique: one row per image regardless of event.
type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) Create(ctx context.Context, info models.ImageInfo) error {
	const query = `
		INSERT INTO image_info (hash, event_prefix, description, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		info.Hash,
		info.EventPrefix,
		info.Description,
	)
	return err
}

func (r *ImageRepository) GetByHash(ctx context.Context, hash string) (models.ImageInfo, error) {
	const query = `
		SELECT hash, event_prefix, description, created_at
		FROM image_info WHERE hash = $1
	`

	row := r.pool.QueryRow(ctx, query, hash)
	var info models.ImageInfo
	if err := row.Scan(
		&info.Hash,
		&info.EventPrefix,
		&info.Description,
		&info.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ImageInfo{}, ErrImageNotFound
		}
		return models.ImageInfo{}, err
	}
	return info, nil
}

// DeleteByHash reports how many rows went away; zero is not an error so
// deletes stay idempotent when the row is already gone.
func (r *ImageRepository) DeleteByHash(ctx context.Context, hash string) (int64, error) {
	const query = `DELETE FROM image_info WHERE hash = $1`

	cmd, err := r.pool.Exec(ctx, query, hash)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ImageRepository) ListByEvent(ctx context.Context, eventPrefix string) ([]models.ImageInfo, error) {
	const query = `
		SELECT hash, event_prefix, description, created_at
		FROM image_info
		WHERE event_prefix = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventPrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []models.ImageInfo
	for rows.Next() {
		var info models.ImageInfo
		if err := rows.Scan(
			&info.Hash,
			&info.EventPrefix,
			&info.Description,
			&info.CreatedAt,
		); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
