package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint rejected the write.
	ErrAlreadyExists = errors.New("already exists")
	// ErrOutOfStock indicates the coin has no stock left at all.
	ErrOutOfStock = errors.New("out of stock")
	// ErrEmptyCart indicates a checkout was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSessionCreationFailed indicates the payment provider returned no hosted page URL.
	ErrSessionCreationFailed = errors.New("failed to create checkout session")
	// ErrMissingUserContext indicates a payment event carried no owning user id.
	ErrMissingUserContext = errors.New("session missing user id")
	// ErrCartEmptyAtFulfillment indicates the cart was already cleared when the
	// payment event arrived; no order can be fabricated from nothing.
	ErrCartEmptyAtFulfillment = errors.New("cart empty at checkout completion")
	// ErrAmountMismatch indicates the collected amount does not match the cart total.
	ErrAmountMismatch = errors.New("cart total mismatch")
	// ErrSessionNotPaid indicates the provider reports the session as unpaid.
	ErrSessionNotPaid = errors.New("session not paid")
	// ErrSessionOwnership indicates the session belongs to a different user.
	ErrSessionOwnership = errors.New("session does not belong to this user")
)

// InsufficientStockError rejects a cart mutation that would exceed live stock.
// It carries enough detail for the client to adjust.
type InsufficientStockError struct {
	Available int
	InCart    int
}

func (e *InsufficientStockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("only %d available in stock, %d already in cart", e.Available, e.InCart)
	}
	return fmt.Sprintf("only %d available in stock", e.Available)
}

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
