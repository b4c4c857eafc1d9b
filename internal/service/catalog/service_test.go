package catalog

import (
	"context"
	"errors"
	"testing"

	"coinshop/internal/domain"
	coinrepo "coinshop/internal/repository/coin"
)

type stubCoinRepo struct {
	coins      []domain.Coin
	coin       *domain.Coin
	getErr     error
	countries  []string
	created    *domain.Coin
	createErr  error
	updateErr  error
	lastFilter coinrepo.ListFilter
	lastCreate domain.Coin
}

func (s *stubCoinRepo) List(_ context.Context, filter coinrepo.ListFilter) ([]domain.Coin, error) {
	s.lastFilter = filter
	return s.coins, nil
}

func (s *stubCoinRepo) GetByID(_ context.Context, _ int64) (*domain.Coin, error) {
	return s.coin, s.getErr
}

func (s *stubCoinRepo) Countries(_ context.Context) ([]string, error) {
	return s.countries, nil
}

func (s *stubCoinRepo) Create(_ context.Context, coin domain.Coin) (*domain.Coin, error) {
	s.lastCreate = coin
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	coin.ID = 1
	return &coin, nil
}

func (s *stubCoinRepo) Update(_ context.Context, coin domain.Coin) (*domain.Coin, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &coin, nil
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateConvertsDollarsToCents(t *testing.T) {
	repo := &stubCoinRepo{}
	svc := &Service{repo: repo}

	coin, err := svc.Create(context.Background(), CreateInput{
		Name:         "Gold Eagle",
		Country:      "United States",
		PriceDollars: floatPtr(19.99),
		Stock:        3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.PriceCents != 1999 {
		t.Fatalf("expected 1999 cents, got %d", coin.PriceCents)
	}
	if repo.lastCreate.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", repo.lastCreate.Stock)
	}
}

func TestCreateRoundsFractionalCents(t *testing.T) {
	repo := &stubCoinRepo{}
	svc := &Service{repo: repo}

	coin, err := svc.Create(context.Background(), CreateInput{
		Name:         "Denarius",
		Country:      "Roman Empire",
		PriceDollars: floatPtr(10.999),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.PriceCents != 1100 {
		t.Fatalf("expected 1100 cents, got %d", coin.PriceCents)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := &Service{repo: &stubCoinRepo{}}
	cases := []CreateInput{
		{Country: "US", PriceDollars: floatPtr(1)},
		{Name: "Coin", PriceDollars: floatPtr(1)},
		{Name: "Coin", Country: "US"},
	}
	for i, in := range cases {
		_, err := svc.Create(context.Background(), in)
		var validation *domain.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := &Service{repo: &stubCoinRepo{}}
	_, err := svc.Create(context.Background(), CreateInput{
		Name:         "Coin",
		Country:      "US",
		PriceDollars: floatPtr(1),
		Type:         "platinum",
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateAcceptsAllKnownTypes(t *testing.T) {
	svc := &Service{repo: &stubCoinRepo{}}
	for _, typ := range []string{"gold", "silver", "historical_gold", "historical_silver", "historical"} {
		_, err := svc.Create(context.Background(), CreateInput{
			Name:         "Coin",
			Country:      "US",
			PriceDollars: floatPtr(1),
			Type:         typ,
		})
		if err != nil {
			t.Fatalf("type %s: unexpected error %v", typ, err)
		}
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := &stubCoinRepo{coin: &domain.Coin{
		ID:         7,
		Name:       "Old Name",
		Country:    "US",
		PriceCents: 1000,
		Stock:      2,
	}}
	svc := &Service{repo: repo}

	coin, err := svc.Update(context.Background(), 7, UpdateInput{
		Name:         strPtr("New Name"),
		PriceDollars: floatPtr(25),
		Stock:        intPtr(4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coin.Name != "New Name" || coin.PriceCents != 2500 || coin.Stock != 4 {
		t.Fatalf("unexpected coin %+v", coin)
	}
	if coin.Country != "US" {
		t.Fatalf("expected untouched country, got %q", coin.Country)
	}
}

func TestUpdateMissingCoin(t *testing.T) {
	repo := &stubCoinRepo{getErr: domain.ErrNotFound}
	svc := &Service{repo: repo}
	_, err := svc.Update(context.Background(), 99, UpdateInput{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRejectsNegativeStock(t *testing.T) {
	repo := &stubCoinRepo{coin: &domain.Coin{ID: 7, Name: "Coin", Country: "US"}}
	svc := &Service{repo: repo}
	_, err := svc.Update(context.Background(), 7, UpdateInput{Stock: intPtr(-1)})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPassesFilter(t *testing.T) {
	repo := &stubCoinRepo{}
	svc := &Service{repo: repo}
	if _, err := svc.List(context.Background(), coinrepo.ListFilter{Country: "US", Type: "gold"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Country != "US" || repo.lastFilter.Type != "gold" {
		t.Fatalf("filter not passed through: %+v", repo.lastFilter)
	}
}
