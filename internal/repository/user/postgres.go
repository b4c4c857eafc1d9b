package user

import (
	"context"
	"io"
	"log"

	"coinshop/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Ensure(ctx context.Context, id string) (*domain.User, error) {
	const q = `
INSERT INTO users (id)
VALUES ($1)
ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
RETURNING id, created_at
`
	var u domain.User
	if err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.CreatedAt); err != nil {
		r.logger.Printf("user repo: ensure id=%s error=%v", id, err)
		return nil, err
	}
	return &u, nil
}
