package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"coinshop/internal/domain"
	"github.com/jackc/pgx/v5"
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

const itemWithCoinQuery = `
SELECT ci.id, ci.user_id, ci.coin_id, ci.quantity, ci.created_at,
       c.id, c.name, COALESCE(c.year, ''), COALESCE(c.country, ''), COALESCE(c.description, ''),
       COALESCE(c.denomination, ''), COALESCE(c.type, ''), COALESCE(c.image_url, ''), c.price_cents, c.stock, c.created_at
FROM cart_items ci
JOIN coins c ON c.id = ci.coin_id
`

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	q := itemWithCoinQuery + `WHERE ci.user_id = $1 ORDER BY ci.created_at ASC, ci.id ASC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("cart repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanItemWithCoin(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cart repo: list rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return items, nil
}

// Add increments the line for (user, coin), creating it when absent. The coin
// row is locked for the duration of the transaction so the stock check and the
// write act as one atomic operation.
func (r *postgresRepo) Add(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stock, err := lockCoinStock(ctx, tx, coinID)
	if err != nil {
		return nil, err
	}
	if stock <= 0 {
		return nil, domain.ErrOutOfStock
	}

	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT quantity FROM cart_items WHERE user_id = $1 AND coin_id = $2
`, userID, coinID).Scan(&existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if existingQty+quantity > stock {
		return nil, &domain.InsufficientStockError{Available: stock, InCart: existingQty}
	}

	var itemID int64
	err = tx.QueryRow(ctx, `
INSERT INTO cart_items (user_id, coin_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, coin_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id
`, userID, coinID, quantity).Scan(&itemID)
	if err != nil {
		r.logger.Printf("cart repo: add user_id=%s coin_id=%d error=%v", userID, coinID, err)
		return nil, err
	}

	item, err := fetchItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity replaces the line's quantity after re-validating against live
// stock. It never increments; callers wanting increments use Add.
func (r *postgresRepo) SetQuantity(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stock, err := lockCoinStock(ctx, tx, coinID)
	if err != nil {
		return nil, err
	}
	if quantity > stock {
		return nil, &domain.InsufficientStockError{Available: stock}
	}

	var itemID int64
	err = tx.QueryRow(ctx, `
UPDATE cart_items SET quantity = $3
WHERE user_id = $1 AND coin_id = $2
RETURNING id
`, userID, coinID, quantity).Scan(&itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: set quantity user_id=%s coin_id=%d error=%v", userID, coinID, err)
		return nil, err
	}

	item, err := fetchItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the line for (user, coin). Deleting an absent line is a no-op.
func (r *postgresRepo) Delete(ctx context.Context, userID string, coinID int64) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items WHERE user_id = $1 AND coin_id = $2
`, userID, coinID)
	if err != nil {
		r.logger.Printf("cart repo: delete user_id=%s coin_id=%d error=%v", userID, coinID, err)
	}
	return err
}

func (r *postgresRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
DELETE FROM cart_items WHERE user_id = $1
`, userID)
	if err != nil {
		r.logger.Printf("cart repo: clear user_id=%s error=%v", userID, err)
	}
	return err
}

// lockCoinStock reads the coin's stock under FOR UPDATE, mapping a missing
// coin to domain.ErrNotFound.
func lockCoinStock(ctx context.Context, tx pgx.Tx, coinID int64) (int, error) {
	var stock int
	err := tx.QueryRow(ctx, `
SELECT stock FROM coins WHERE id = $1 FOR UPDATE
`, coinID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

func fetchItem(ctx context.Context, tx pgx.Tx, itemID int64) (*domain.CartItem, error) {
	q := itemWithCoinQuery + `WHERE ci.id = $1`
	return scanItemWithCoin(tx.QueryRow(ctx, q, itemID))
}

func scanItemWithCoin(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	var coin domain.Coin
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.CoinID,
		&item.Quantity,
		&item.CreatedAt,
		&coin.ID,
		&coin.Name,
		&coin.Year,
		&coin.Country,
		&coin.Description,
		&coin.Denomination,
		&coin.Type,
		&coin.ImageURL,
		&coin.PriceCents,
		&coin.Stock,
		&coin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Coin = &coin
	return &item, nil
}
