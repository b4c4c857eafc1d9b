package fulfillment

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"coinshop/internal/domain"
	"coinshop/internal/payment"
	orderrepo "coinshop/internal/repository/order"
)

type stubVerifier struct {
	event payment.Event
	err   error
}

func (s *stubVerifier) VerifyEvent(_ []byte, _ string) (payment.Event, error) {
	return s.event, s.err
}

type stubOrderRepo struct {
	existing    *domain.Order
	getErr      error
	created     *domain.Order
	createErr   error
	createCalls int
	lastInput   orderrepo.FulfillmentInput
}

func (s *stubOrderRepo) GetBySessionID(_ context.Context, _ string) (*domain.Order, error) {
	return s.existing, s.getErr
}

func (s *stubOrderRepo) CreateFulfillment(_ context.Context, in orderrepo.FulfillmentInput) (*domain.Order, error) {
	s.createCalls++
	s.lastInput = in
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	return &domain.Order{ID: 1, StripeSessionID: in.StripeSessionID, TotalCents: in.TotalCents}, nil
}

type stubCartRepo struct {
	items   []domain.CartItem
	listErr error
}

func (s *stubCartRepo) ListByUser(_ context.Context, _ string) ([]domain.CartItem, error) {
	return s.items, s.listErr
}

func newService(verifier payment.EventVerifier, orders *stubOrderRepo, carts *stubCartRepo) *Service {
	return &Service{
		verifier: verifier,
		orders:   orders,
		carts:    carts,
		logger:   log.New(io.Discard, "", 0),
	}
}

func completedEvent(sess *payment.CheckoutSession) payment.Event {
	return payment.Event{Type: payment.EventCheckoutCompleted, Session: sess}
}

func cartWithCoin(coinID int64, price int64, qty int) []domain.CartItem {
	return []domain.CartItem{{
		ID:       coinID,
		CoinID:   coinID,
		Quantity: qty,
		Coin:     &domain.Coin{ID: coinID, Name: "Coin", PriceCents: price, Stock: qty},
	}}
}

func TestHandleEventRejectsBadSignature(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	svc := newService(&stubVerifier{err: payment.ErrSignatureVerification}, orders, &stubCartRepo{})

	err := svc.HandleEvent(context.Background(), []byte("{}"), "bad-sig")
	if !errors.Is(err, payment.ErrSignatureVerification) {
		t.Fatalf("expected signature error, got %v", err)
	}
	if orders.createCalls != 0 {
		t.Fatal("expected no side effects on bad signature")
	}
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	verifier := &stubVerifier{event: payment.Event{Type: "payment_intent.created"}}
	svc := newService(verifier, orders, &stubCartRepo{})

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected nil for ignored event, got %v", err)
	}
	if orders.createCalls != 0 {
		t.Fatal("expected no order creation")
	}
}

func TestHandleEventCreatesOrder(t *testing.T) {
	sess := &payment.CheckoutSession{
		ID:           "cs_1",
		AmountTotal:  2000,
		Paid:         true,
		UserID:       "user-1",
		ShippingName: "Jordan Smith",
		ShippingAddress: &payment.Address{
			Line1:      "1 Mint Way",
			City:       "Denver",
			State:      "CO",
			PostalCode: "80201",
			Country:    "US",
		},
	}
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	carts := &stubCartRepo{items: cartWithCoin(10, 1000, 2)}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, carts)

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.createCalls != 1 {
		t.Fatalf("expected one fulfillment commit, got %d", orders.createCalls)
	}
	in := orders.lastInput
	if in.UserID != "user-1" || in.StripeSessionID != "cs_1" || in.TotalCents != 2000 {
		t.Fatalf("unexpected input %+v", in)
	}
	if len(in.Lines) != 1 || in.Lines[0].CoinID != 10 || in.Lines[0].Quantity != 2 || in.Lines[0].PriceCents != 1000 {
		t.Fatalf("unexpected lines %+v", in.Lines)
	}
	if in.ShippingCity != "Denver" || in.ShippingCountry != "US" {
		t.Fatalf("unexpected shipping %+v", in)
	}
}

func TestHandleEventAlreadyFulfilled(t *testing.T) {
	orders := &stubOrderRepo{existing: &domain.Order{ID: 1, StripeSessionID: "cs_1"}}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 1000}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, &stubCartRepo{items: cartWithCoin(10, 1000, 1)})

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected nil for duplicate delivery, got %v", err)
	}
	if orders.createCalls != 0 {
		t.Fatal("expected no second commit")
	}
}

func TestHandleEventMissingUserMetadata(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	sess := &payment.CheckoutSession{ID: "cs_1", AmountTotal: 1000}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, &stubCartRepo{})

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	if !errors.Is(err, domain.ErrMissingUserContext) {
		t.Fatalf("expected missing user error, got %v", err)
	}
}

func TestHandleEventCartAlreadyEmpty(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 1000}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, &stubCartRepo{})

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	if !errors.Is(err, domain.ErrCartEmptyAtFulfillment) {
		t.Fatalf("expected cart empty error, got %v", err)
	}
	if orders.createCalls != 0 {
		t.Fatal("expected no commit")
	}
}

func TestHandleEventAmountMismatch(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 999}
	carts := &stubCartRepo{items: cartWithCoin(10, 1000, 2)}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, carts)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	if !errors.Is(err, domain.ErrAmountMismatch) {
		t.Fatalf("expected amount mismatch, got %v", err)
	}
	if orders.createCalls != 0 {
		t.Fatal("expected no commit on mismatch")
	}
}

func TestHandleEventLostRaceIsSuccess(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound, createErr: domain.ErrAlreadyExists}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 1000}
	carts := &stubCartRepo{items: cartWithCoin(10, 1000, 1)}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, carts)

	if err := svc.HandleEvent(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected nil when losing the commit race, got %v", err)
	}
}

func TestHandleEventPersistenceFailure(t *testing.T) {
	orders := &stubOrderRepo{getErr: domain.ErrNotFound, createErr: errors.New("db down")}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 1000}
	carts := &stubCartRepo{items: cartWithCoin(10, 1000, 1)}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, carts)

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestHandleEventIdempotencyLookupFailure(t *testing.T) {
	orders := &stubOrderRepo{getErr: errors.New("db down")}
	sess := &payment.CheckoutSession{ID: "cs_1", UserID: "user-1", AmountTotal: 1000}
	svc := newService(&stubVerifier{event: completedEvent(sess)}, orders, &stubCartRepo{})

	err := svc.HandleEvent(context.Background(), []byte("{}"), "sig")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}
