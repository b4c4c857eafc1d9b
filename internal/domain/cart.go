package domain

import "time"

// CartItem is one (user, coin) line. The pair is unique per user and the
// quantity is always >= 1; dropping to zero deletes the row.
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	CoinID    int64     `json:"coinId"`
	Quantity  int       `json:"quantity"`
	Coin      *Coin     `json:"coin,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartSummary is a cart listing with its computed totals.
type CartSummary struct {
	Items      []CartItem `json:"items"`
	TotalCents int64      `json:"total"`
	ItemCount  int        `json:"itemCount"`
}
