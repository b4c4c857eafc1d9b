package payment

import (
	"context"
	"errors"
)

// EventCheckoutCompleted is the only event type that triggers fulfillment.
const EventCheckoutCompleted = "checkout.session.completed"

// ErrSignatureVerification indicates a webhook payload failed the provider's
// signature check and must be rejected without side effects.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// CheckoutLine is one manifest entry for a hosted payment page, priced from
// the live catalog at session-creation time.
type CheckoutLine struct {
	Name            string
	Description     string
	ImageURL        string
	UnitAmountCents int64
	Quantity        int
}

// CreateSessionInput carries everything the provider needs to host a payment
// page. UserID travels as both client reference and metadata; the metadata is
// the only channel by which the webhook later learns whose cart to reconcile.
type CreateSessionInput struct {
	UserID           string
	Lines            []CheckoutLine
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

// Address is a provider-collected shipping or billing address.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// CheckoutSession is the provider's view of a payment session.
type CheckoutSession struct {
	ID              string
	AmountTotal     int64
	Paid            bool
	UserID          string
	ShippingName    string
	ShippingAddress *Address
}

// Event is a verified provider notification. Session is populated for
// checkout session events.
type Event struct {
	Type    string
	Session *CheckoutSession
}

// Provider creates and retrieves hosted checkout sessions.
type Provider interface {
	// CreateCheckoutSession returns the hosted payment page URL.
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (string, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}

// EventVerifier authenticates a raw webhook body against its signature header.
type EventVerifier interface {
	VerifyEvent(payload []byte, signature string) (Event, error)
}
