package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"coinshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

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

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	const q = `
SELECT id, user_id, stripe_session_id, total_cents,
       COALESCE(shipping_name, ''), COALESCE(shipping_line1, ''), COALESCE(shipping_line2, ''),
       COALESCE(shipping_city, ''), COALESCE(shipping_state, ''), COALESCE(shipping_postal_code, ''),
       COALESCE(shipping_country, ''), created_at
FROM orders
WHERE stripe_session_id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, sessionID).Scan(
		&o.ID,
		&o.UserID,
		&o.StripeSessionID,
		&o.TotalCents,
		&o.ShippingName,
		&o.ShippingLine1,
		&o.ShippingLine2,
		&o.ShippingCity,
		&o.ShippingState,
		&o.ShippingPostalCode,
		&o.ShippingCountry,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get session_id=%s error=%v", sessionID, err)
		return nil, err
	}

	const itemsQ = `
SELECT id, order_id, coin_id, quantity, price_cents
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, itemsQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.CoinID, &item.Quantity, &item.PriceCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateFulfillment runs the whole commit as one transaction: the order
// insert, its items, a guarded stock decrement per line, and the cart clear.
// Any failure rolls everything back, so a webhook retry starts clean.
func (r *postgresRepo) CreateFulfillment(ctx context.Context, in FulfillmentInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o := domain.Order{
		UserID:             in.UserID,
		StripeSessionID:    in.StripeSessionID,
		TotalCents:         in.TotalCents,
		ShippingName:       in.ShippingName,
		ShippingLine1:      in.ShippingLine1,
		ShippingLine2:      in.ShippingLine2,
		ShippingCity:       in.ShippingCity,
		ShippingState:      in.ShippingState,
		ShippingPostalCode: in.ShippingPostalCode,
		ShippingCountry:    in.ShippingCountry,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, stripe_session_id, total_cents, shipping_name, shipping_line1, shipping_line2,
                    shipping_city, shipping_state, shipping_postal_code, shipping_country)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
RETURNING id, created_at
`,
		in.UserID,
		in.StripeSessionID,
		in.TotalCents,
		in.ShippingName,
		in.ShippingLine1,
		in.ShippingLine2,
		in.ShippingCity,
		in.ShippingState,
		in.ShippingPostalCode,
		in.ShippingCountry,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// A concurrent delivery committed first; the order exists.
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert session_id=%s error=%v", in.StripeSessionID, err)
		return nil, err
	}

	for _, line := range in.Lines {
		var item domain.OrderItem
		err = tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, coin_id, quantity, price_cents)
VALUES ($1, $2, $3, $4)
RETURNING id
`, o.ID, line.CoinID, line.Quantity, line.PriceCents).Scan(&item.ID)
		if err != nil {
			r.logger.Printf("order repo: insert item order_id=%d coin_id=%d error=%v", o.ID, line.CoinID, err)
			return nil, err
		}
		item.OrderID = o.ID
		item.CoinID = line.CoinID
		item.Quantity = line.Quantity
		item.PriceCents = line.PriceCents
		o.Items = append(o.Items, item)

		cmd, err := tx.Exec(ctx, `
UPDATE coins SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, line.CoinID, line.Quantity)
		if err != nil {
			r.logger.Printf("order repo: decrement stock coin_id=%d error=%v", line.CoinID, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("insufficient stock for coin %d", line.CoinID)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, in.UserID); err != nil {
		r.logger.Printf("order repo: clear cart user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: fulfilled session_id=%s order_id=%d items=%d", in.StripeSessionID, o.ID, len(o.Items))
	return &o, nil
}
