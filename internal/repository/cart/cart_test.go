package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"coinshop/internal/domain"
	"coinshop/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, coins, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `INSERT INTO users (id) VALUES ($1)`, id); err != nil {
		t.Fatalf("insert user: %v", err)
	}
}

func insertCoin(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, price int64, stock int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
INSERT INTO coins (name, price_cents, stock) VALUES ($1, $2, $3) RETURNING id
`, name, price, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert coin: %v", err)
	}
	return id
}

func TestPostgres_AddAndList(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	insertUser(ctx, t, pool, "user-1")
	coinID := insertCoin(ctx, t, pool, "Gold Eagle", 1999, 5)

	repo := NewPostgres(pool, nil)
	item, err := repo.Add(ctx, "user-1", coinID, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if item.Quantity != 2 || item.Coin == nil || item.Coin.PriceCents != 1999 {
		t.Fatalf("unexpected item %+v", item)
	}

	// Adding again increments the existing line.
	item, err = repo.Add(ctx, "user-1", coinID, 1)
	if err != nil {
		t.Fatalf("Add again: %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity 3 after increment, got %d", item.Quantity)
	}

	items, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestPostgres_AddEnforcesStock(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	insertUser(ctx, t, pool, "user-1")
	coinID := insertCoin(ctx, t, pool, "Denarius", 500, 2)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Add(ctx, "user-1", coinID, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := repo.Add(ctx, "user-1", coinID, 1)
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if insufficient.Available != 2 || insufficient.InCart != 2 {
		t.Fatalf("unexpected detail %+v", insufficient)
	}
}

func TestPostgres_AddMissingAndDepletedCoin(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	insertUser(ctx, t, pool, "user-1")
	depleted := insertCoin(ctx, t, pool, "Sold Out", 500, 0)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Add(ctx, "user-1", 9999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for missing coin, got %v", err)
	}
	if _, err := repo.Add(ctx, "user-1", depleted, 1); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
}

func TestPostgres_SetQuantity(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	insertUser(ctx, t, pool, "user-1")
	coinID := insertCoin(ctx, t, pool, "Gold Eagle", 1999, 5)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Add(ctx, "user-1", coinID, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Replaces, never increments.
	item, err := repo.SetQuantity(ctx, "user-1", coinID, 4)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if item.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", item.Quantity)
	}

	_, err = repo.SetQuantity(ctx, "user-1", coinID, 6)
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if insufficient.Available != 5 {
		t.Fatalf("unexpected available %d", insufficient.Available)
	}

	if _, err := repo.SetQuantity(ctx, "user-2-absent-line", coinID, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for absent line, got %v", err)
	}
}

func TestPostgres_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	insertUser(ctx, t, pool, "user-1")
	first := insertCoin(ctx, t, pool, "First", 100, 5)
	second := insertCoin(ctx, t, pool, "Second", 200, 5)

	repo := NewPostgres(pool, nil)
	if _, err := repo.Add(ctx, "user-1", first, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(ctx, "user-1", second, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := repo.Delete(ctx, "user-1", first); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting an absent line is a tolerated no-op.
	if err := repo.Delete(ctx, "user-1", first); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}

	if err := repo.DeleteAllForUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	items, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}
