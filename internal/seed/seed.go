package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type coinSeed struct {
	Name         string
	Year         string
	Country      string
	Description  string
	Denomination string
	Type         string
	PriceCents   int64
	Stock        int
}

// Apply inserts a small demo catalog for manual testing. It is idempotent by
// skipping entirely when the catalog already has rows.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM coins`).Scan(&count); err != nil {
		return fmt.Errorf("count coins: %w", err)
	}
	if count > 0 {
		return nil
	}

	coins := []coinSeed{
		{
			Name:         "American Gold Eagle",
			Year:         "1997",
			Country:      "United States",
			Description:  "One ounce gold bullion coin with Saint-Gaudens obverse",
			Denomination: "$50",
			Type:         "gold",
			PriceCents:   215000,
			Stock:        3,
		},
		{
			Name:         "Morgan Silver Dollar",
			Year:         "1885",
			Country:      "United States",
			Description:  "Circulated Morgan dollar from the New Orleans mint",
			Denomination: "$1",
			Type:         "historical_silver",
			PriceCents:   8900,
			Stock:        12,
		},
		{
			Name:         "Canadian Maple Leaf",
			Year:         "2021",
			Country:      "Canada",
			Description:  "One ounce .9999 fine silver",
			Denomination: "$5",
			Type:         "silver",
			PriceCents:   3400,
			Stock:        25,
		},
		{
			Name:         "British Sovereign",
			Year:         "1911",
			Country:      "United Kingdom",
			Description:  "George V gold sovereign",
			Denomination: "1 sovereign",
			Type:         "historical_gold",
			PriceCents:   62000,
			Stock:        5,
		},
		{
			Name:         "Roman Denarius",
			Year:         "c. 140 AD",
			Country:      "Roman Empire",
			Description:  "Silver denarius of Antoninus Pius",
			Denomination: "1 denarius",
			Type:         "historical",
			PriceCents:   18500,
			Stock:        2,
		},
	}

	for _, c := range coins {
		if err := insertCoin(ctx, pool, c); err != nil {
			return fmt.Errorf("insert coin %s: %w", c.Name, err)
		}
	}

	return nil
}

func insertCoin(ctx context.Context, pool *pgxpool.Pool, c coinSeed) error {
	const q = `
INSERT INTO coins (name, year, country, description, denomination, type, price_cents, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := pool.Exec(ctx, q, c.Name, c.Year, c.Country, c.Description, c.Denomination, c.Type, c.PriceCents, c.Stock)
	return err
}
