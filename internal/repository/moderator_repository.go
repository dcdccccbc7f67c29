package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModeratorRepository reads the externally managed allow-list. Nothing
// in this service writes to it.
type ModeratorRepository struct {
	pool *pgxpool.Pool
}

func NewModeratorRepository(pool *pgxpool.Pool) *ModeratorRepository {
	return &ModeratorRepository{pool: pool}
}

func (r *ModeratorRepository) Exists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT email FROM moderators WHERE email = $1`

	var found string
	if err := r.pool.QueryRow(ctx, query, email).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
