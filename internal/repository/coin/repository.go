package coin

import (
	"context"

	"coinshop/internal/domain"
)

// ListFilter narrows a catalog listing. Zero values mean no filtering.
type ListFilter struct {
	Country string
	Type    string
	Query   string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Coin, error)
	GetByID(ctx context.Context, id int64) (*domain.Coin, error)
	Countries(ctx context.Context) ([]string, error)
	Create(ctx context.Context, coin domain.Coin) (*domain.Coin, error)
	Update(ctx context.Context, coin domain.Coin) (*domain.Coin, error)
}
