package catalog

import (
	"context"
	"math"

	"coinshop/internal/domain"
	coinrepo "coinshop/internal/repository/coin"
)

type Service struct {
	repo coinRepo
}

type coinRepo interface {
	List(ctx context.Context, filter coinrepo.ListFilter) ([]domain.Coin, error)
	GetByID(ctx context.Context, id int64) (*domain.Coin, error)
	Countries(ctx context.Context) ([]string, error)
	Create(ctx context.Context, coin domain.Coin) (*domain.Coin, error)
	Update(ctx context.Context, coin domain.Coin) (*domain.Coin, error)
}

func New(repo coinrepo.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput is an admin coin submission. Price arrives in dollars and is
// stored in cents.
type CreateInput struct {
	Name         string   `json:"name"`
	Year         string   `json:"year"`
	Country      string   `json:"country"`
	Description  string   `json:"description"`
	Denomination string   `json:"denomination"`
	Type         string   `json:"type"`
	ImageURL     string   `json:"imageUrl"`
	PriceDollars *float64 `json:"price"`
	Stock        int      `json:"stock"`
}

// UpdateInput carries partial edits for an existing coin; nil fields keep
// their current value.
type UpdateInput struct {
	Name         *string  `json:"name"`
	Year         *string  `json:"year"`
	Country      *string  `json:"country"`
	Description  *string  `json:"description"`
	Denomination *string  `json:"denomination"`
	Type         *string  `json:"type"`
	ImageURL     *string  `json:"imageUrl"`
	PriceDollars *float64 `json:"price"`
	Stock        *int     `json:"stock"`
}

func (s *Service) List(ctx context.Context, filter coinrepo.ListFilter) ([]domain.Coin, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Coin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Countries(ctx context.Context) ([]string, error) {
	return s.repo.Countries(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Coin, error) {
	if in.Name == "" || in.Country == "" || in.PriceDollars == nil {
		return nil, &domain.ValidationError{Msg: "missing required fields: name, country, price"}
	}
	if in.Type != "" && !domain.ValidCoinType(in.Type) {
		return nil, &domain.ValidationError{Msg: "unknown coin type: " + in.Type}
	}
	if in.Stock < 0 {
		return nil, &domain.ValidationError{Msg: "stock must not be negative"}
	}
	return s.repo.Create(ctx, domain.Coin{
		Name:         in.Name,
		Year:         in.Year,
		Country:      in.Country,
		Description:  in.Description,
		Denomination: in.Denomination,
		Type:         in.Type,
		ImageURL:     in.ImageURL,
		PriceCents:   dollarsToCents(*in.PriceDollars),
		Stock:        in.Stock,
	})
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Coin, error) {
	coin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, &domain.ValidationError{Msg: "name must not be empty"}
		}
		coin.Name = *in.Name
	}
	if in.Year != nil {
		coin.Year = *in.Year
	}
	if in.Country != nil {
		if *in.Country == "" {
			return nil, &domain.ValidationError{Msg: "country must not be empty"}
		}
		coin.Country = *in.Country
	}
	if in.Description != nil {
		coin.Description = *in.Description
	}
	if in.Denomination != nil {
		coin.Denomination = *in.Denomination
	}
	if in.Type != nil {
		if *in.Type != "" && !domain.ValidCoinType(*in.Type) {
			return nil, &domain.ValidationError{Msg: "unknown coin type: " + *in.Type}
		}
		coin.Type = *in.Type
	}
	if in.ImageURL != nil {
		coin.ImageURL = *in.ImageURL
	}
	if in.PriceDollars != nil {
		coin.PriceCents = dollarsToCents(*in.PriceDollars)
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, &domain.ValidationError{Msg: "stock must not be negative"}
		}
		coin.Stock = *in.Stock
	}

	return s.repo.Update(ctx, *coin)
}

func dollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
