package payment

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeClient implements Provider and EventVerifier against the Stripe API.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, webhookSecret: webhookSecret}
}

func (c *StripeClient) CreateCheckoutSession(_ context.Context, in CreateSessionInput) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines))
	for _, line := range in.Lines {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Description != "" {
			productData.Description = stripe.String(line.Description)
		}
		if line.ImageURL != "" {
			productData.Images = stripe.StringSlice([]string{line.ImageURL})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(line.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount:  stripe.Int64(line.UnitAmountCents),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.UserID),
	}
	if len(in.AllowedCountries) > 0 {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(in.AllowedCountries),
		}
	}
	params.AddMetadata("userId", in.UserID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (c *StripeClient) GetCheckoutSession(_ context.Context, id string) (*CheckoutSession, error) {
	sess, err := c.api.CheckoutSessions.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return fromStripeSession(sess), nil
}

// VerifyEvent authenticates the raw webhook body against the Stripe-Signature
// header and decodes the checkout session for session events.
func (c *StripeClient) VerifyEvent(payload []byte, signature string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}

	event := Event{Type: string(stripeEvent.Type)}
	if event.Type == EventCheckoutCompleted {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		event.Session = fromStripeSession(&sess)
	}
	return event, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:          sess.ID,
		AmountTotal: sess.AmountTotal,
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if sess.Metadata != nil {
		out.UserID = sess.Metadata["userId"]
	}

	// Prefer the collected shipping details, fall back to billing details.
	var addr *stripe.Address
	if sess.ShippingDetails != nil {
		out.ShippingName = sess.ShippingDetails.Name
		addr = sess.ShippingDetails.Address
	}
	if sess.CustomerDetails != nil {
		if out.ShippingName == "" {
			out.ShippingName = sess.CustomerDetails.Name
		}
		if addr == nil {
			addr = sess.CustomerDetails.Address
		}
	}
	if addr != nil {
		out.ShippingAddress = &Address{
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}
	return out
}
