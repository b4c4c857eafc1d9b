package user

import (
	"context"

	"coinshop/internal/domain"
)

type Repository interface {
	// Ensure materializes the user row for a provider-issued id, creating it
	// on first contact (get-or-create).
	Ensure(ctx context.Context, id string) (*domain.User, error)
}
