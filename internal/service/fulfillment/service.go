package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"coinshop/internal/domain"
	"coinshop/internal/payment"
	cartrepo "coinshop/internal/repository/cart"
	orderrepo "coinshop/internal/repository/order"
)

// ErrPersistence wraps a failed fulfillment commit. The whole commit is one
// transaction, so the provider's retry re-runs it from the top.
var ErrPersistence = errors.New("failed to fulfill order")

type Service struct {
	verifier payment.EventVerifier
	orders   orderRepo
	carts    cartRepo
	logger   *log.Logger
}

type orderRepo interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	CreateFulfillment(ctx context.Context, in orderrepo.FulfillmentInput) (*domain.Order, error)
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}

func New(verifier payment.EventVerifier, orders orderrepo.Repository, carts cartrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{verifier: verifier, orders: orders, carts: carts, logger: logger}
}

// HandleEvent reconciles a provider notification into a persisted order.
// A nil return means the event was handled (or deliberately ignored); the
// caller acknowledges it so the provider stops retrying.
func (s *Service) HandleEvent(ctx context.Context, body []byte, signature string) error {
	event, err := s.verifier.VerifyEvent(body, signature)
	if err != nil {
		s.logger.Printf("fulfillment: signature verification failed: %v", err)
		return err
	}

	if event.Type != payment.EventCheckoutCompleted {
		return nil
	}
	sess := event.Session
	if sess == nil {
		return fmt.Errorf("%s event without session payload", event.Type)
	}

	// Idempotency guard: a retry or the success-page fallback racing the
	// webhook finds the order already present.
	if _, err := s.orders.GetBySessionID(ctx, sess.ID); err == nil {
		s.logger.Printf("fulfillment: session_id=%s already fulfilled", sess.ID)
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if sess.UserID == "" {
		s.logger.Printf("fulfillment: session_id=%s missing user metadata", sess.ID)
		return domain.ErrMissingUserContext
	}

	items, err := s.carts.ListByUser(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(items) == 0 {
		s.logger.Printf("fulfillment: session_id=%s user_id=%s cart already empty", sess.ID, sess.UserID)
		return domain.ErrCartEmptyAtFulfillment
	}

	var cartTotal int64
	lines := make([]orderrepo.FulfillmentLine, 0, len(items))
	for _, item := range items {
		if item.Coin == nil {
			return fmt.Errorf("%w: cart item %d has no coin", ErrPersistence, item.ID)
		}
		cartTotal += item.Coin.PriceCents * int64(item.Quantity)
		lines = append(lines, orderrepo.FulfillmentLine{
			CoinID:     item.CoinID,
			Quantity:   item.Quantity,
			PriceCents: item.Coin.PriceCents,
		})
	}
	if cartTotal != sess.AmountTotal {
		s.logger.Printf("fulfillment: session_id=%s cart_total=%d amount_total=%d mismatch", sess.ID, cartTotal, sess.AmountTotal)
		return domain.ErrAmountMismatch
	}

	in := orderrepo.FulfillmentInput{
		UserID:          sess.UserID,
		StripeSessionID: sess.ID,
		TotalCents:      sess.AmountTotal,
		ShippingName:    sess.ShippingName,
		Lines:           lines,
	}
	if addr := sess.ShippingAddress; addr != nil {
		in.ShippingLine1 = addr.Line1
		in.ShippingLine2 = addr.Line2
		in.ShippingCity = addr.City
		in.ShippingState = addr.State
		in.ShippingPostalCode = addr.PostalCode
		in.ShippingCountry = addr.Country
	}

	order, err := s.orders.CreateFulfillment(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost a race with a concurrent delivery; the order exists.
			s.logger.Printf("fulfillment: session_id=%s committed concurrently", sess.ID)
			return nil
		}
		s.logger.Printf("fulfillment: session_id=%s commit error=%v", sess.ID, err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.Printf("fulfillment: session_id=%s order_id=%d total=%d", sess.ID, order.ID, order.TotalCents)
	return nil
}
