package coin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"coinshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const coinColumns = `id, name, COALESCE(year, ''), COALESCE(country, ''), COALESCE(description, ''), COALESCE(denomination, ''), COALESCE(type, ''), COALESCE(image_url, ''), price_cents, stock, created_at`

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

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Coin, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Country != "" {
		args = append(args, filter.Country)
		conds = append(conds, fmt.Sprintf("country = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	q := `SELECT ` + coinColumns + ` FROM coins`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("coin repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coin
	for rows.Next() {
		c, err := scanCoin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("coin repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Coin, error) {
	q := `SELECT ` + coinColumns + ` FROM coins WHERE id = $1`
	c, err := scanCoin(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("coin repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Countries(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT country
FROM coins
WHERE country IS NOT NULL AND country <> ''
ORDER BY country ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("coin repo: countries error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *postgresRepo) Create(ctx context.Context, coin domain.Coin) (*domain.Coin, error) {
	const q = `
INSERT INTO coins (name, year, country, description, denomination, type, image_url, price_cents, stock)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
RETURNING id, created_at
`
	res := coin
	err := r.pool.QueryRow(ctx, q,
		coin.Name,
		coin.Year,
		coin.Country,
		coin.Description,
		coin.Denomination,
		coin.Type,
		coin.ImageURL,
		coin.PriceCents,
		coin.Stock,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("coin repo: create name=%q error=%v", coin.Name, err)
		return nil, err
	}
	r.logger.Printf("coin repo: created id=%d name=%q", res.ID, res.Name)
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, coin domain.Coin) (*domain.Coin, error) {
	const q = `
UPDATE coins
SET name = $2,
    year = NULLIF($3, ''),
    country = NULLIF($4, ''),
    description = NULLIF($5, ''),
    denomination = NULLIF($6, ''),
    type = NULLIF($7, ''),
    image_url = NULLIF($8, ''),
    price_cents = $9,
    stock = $10
WHERE id = $1
RETURNING created_at
`
	res := coin
	err := r.pool.QueryRow(ctx, q,
		coin.ID,
		coin.Name,
		coin.Year,
		coin.Country,
		coin.Description,
		coin.Denomination,
		coin.Type,
		coin.ImageURL,
		coin.PriceCents,
		coin.Stock,
	).Scan(&res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("coin repo: update id=%d error=%v", coin.ID, err)
		return nil, err
	}
	return &res, nil
}

func scanCoin(row pgx.Row) (*domain.Coin, error) {
	var c domain.Coin
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Year,
		&c.Country,
		&c.Description,
		&c.Denomination,
		&c.Type,
		&c.ImageURL,
		&c.PriceCents,
		&c.Stock,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
