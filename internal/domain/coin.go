package domain

import "time"

// CoinType is the closed set of catalog categories.
type CoinType string

const (
	CoinTypeGold             CoinType = "gold"
	CoinTypeSilver           CoinType = "silver"
	CoinTypeHistoricalGold   CoinType = "historical_gold"
	CoinTypeHistoricalSilver CoinType = "historical_silver"
	CoinTypeHistorical       CoinType = "historical"
)

// ValidCoinType reports whether t is one of the known catalog categories.
func ValidCoinType(t string) bool {
	switch CoinType(t) {
	case CoinTypeGold, CoinTypeSilver, CoinTypeHistoricalGold, CoinTypeHistoricalSilver, CoinTypeHistorical:
		return true
	}
	return false
}

// Coin is a sellable catalog item. PriceCents is in minor currency units;
// Stock never goes below zero (enforced by the store).
type Coin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Year         string    `json:"year,omitempty"`
	Country      string    `json:"country"`
	Description  string    `json:"description,omitempty"`
	Denomination string    `json:"denomination,omitempty"`
	Type         string    `json:"type,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	PriceCents   int64     `json:"price"`
	Stock        int       `json:"stock"`
	CreatedAt    time.Time `json:"createdAt"`
}
