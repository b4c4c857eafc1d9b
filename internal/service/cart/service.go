package cart

import (
	"context"

	"coinshop/internal/domain"
	cartrepo "coinshop/internal/repository/cart"
	userrepo "coinshop/internal/repository/user"
)

type Service struct {
	repo  cartRepo
	users userRepo
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	Add(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, userID string, coinID int64) error
}

type userRepo interface {
	Ensure(ctx context.Context, id string) (*domain.User, error)
}

func New(repo cartrepo.Repository, users userrepo.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// List returns the user's cart lines joined with their coins plus the running
// total and item count.
func (s *Service) List(ctx context.Context, userID string) (*domain.CartSummary, error) {
	if _, err := s.users.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.CartSummary{Items: items}
	if summary.Items == nil {
		summary.Items = []domain.CartItem{}
	}
	for _, item := range items {
		if item.Coin != nil {
			summary.TotalCents += item.Coin.PriceCents * int64(item.Quantity)
		}
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}

// Add puts quantity more of a coin into the cart, incrementing any existing
// line. Stock validation happens atomically in the store.
func (s *Service) Add(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if _, err := s.users.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, userID, coinID, quantity)
}

// SetQuantity replaces the line's quantity. Zero or negative deletes the line;
// deleting an absent line is not an error.
func (s *Service) SetQuantity(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error) {
	if _, err := s.users.Ensure(ctx, userID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		if err := s.repo.Delete(ctx, userID, coinID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return s.repo.SetQuantity(ctx, userID, coinID, quantity)
}

// Remove deletes the line for (user, coin) unconditionally.
func (s *Service) Remove(ctx context.Context, userID string, coinID int64) error {
	if _, err := s.users.Ensure(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID, coinID)
}
