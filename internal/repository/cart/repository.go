package cart

import (
	"context"

	"coinshop/internal/domain"
)

// Repository mutates per-user cart lines. Stock checks happen inside the
// mutation transaction with the coin row locked, so a concurrent add cannot
// slip past validation.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, userID string, coinID int64) error
	DeleteAllForUser(ctx context.Context, userID string) error
}
