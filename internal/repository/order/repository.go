package order

import (
	"context"

	"coinshop/internal/domain"
)

// FulfillmentLine is one purchased cart line with its price frozen at
// purchase time.
type FulfillmentLine struct {
	CoinID     int64
	Quantity   int
	PriceCents int64
}

// FulfillmentInput describes the full commit for a paid session: the order
// header, its lines, and the cart rows to clear.
type FulfillmentInput struct {
	UserID             string
	StripeSessionID    string
	TotalCents         int64
	ShippingName       string
	ShippingLine1      string
	ShippingLine2      string
	ShippingCity       string
	ShippingState      string
	ShippingPostalCode string
	ShippingCountry    string
	Lines              []FulfillmentLine
}

type Repository interface {
	// GetBySessionID looks up an order by its payment session id, the
	// idempotency key for webhook deliveries.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	// CreateFulfillment persists the order with its items, decrements stock
	// for every line and clears the user's cart, all in one transaction.
	// A duplicate session id yields domain.ErrAlreadyExists.
	CreateFulfillment(ctx context.Context, in FulfillmentInput) (*domain.Order, error)
}
