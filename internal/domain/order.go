package domain

import "time"

// Order is the permanent record of a fulfilled payment session. It is keyed
// by the provider-issued session id and never mutated after creation.
type Order struct {
	ID                 int64       `json:"id"`
	UserID             string      `json:"userId"`
	StripeSessionID    string      `json:"stripeSessionId"`
	TotalCents         int64       `json:"totalCents"`
	ShippingName       string      `json:"shippingName,omitempty"`
	ShippingLine1      string      `json:"shippingLine1,omitempty"`
	ShippingLine2      string      `json:"shippingLine2,omitempty"`
	ShippingCity       string      `json:"shippingCity,omitempty"`
	ShippingState      string      `json:"shippingState,omitempty"`
	ShippingPostalCode string      `json:"shippingPostalCode,omitempty"`
	ShippingCountry    string      `json:"shippingCountry,omitempty"`
	Items              []OrderItem `json:"orderItems,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// OrderItem records the coin, quantity and the price at time of purchase,
// decoupled from later catalog price edits.
type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"orderId"`
	CoinID     int64 `json:"coinId"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"priceCents"`
}
