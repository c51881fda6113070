package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

type factsRepository struct {
	db *DB
}

// NewFactsRepository reads the stock and sales fact snapshots.
func NewFactsRepository(db *DB) *factsRepository {
	return &factsRepository{db: db}
}

func (r *factsRepository) Positions(ctx context.Context) ([]domain.StockPosition, error) {
	query := `
		SELECT store_raw, code, COALESCE(brand, '') AS brand,
		       COALESCE(color, '') AS color, quantity, recorded_at
		FROM stock_positions
		ORDER BY store_raw, code
	`
	var positions []domain.StockPosition
	if err := sqlx.SelectContext(ctx, r.db, &positions, query); err != nil {
		return nil, fmt.Errorf("%w: stock_positions: %v", domain.ErrDataUnavailable, err)
	}
	return positions, nil
}

func (r *factsRepository) WarehouseStock(ctx context.Context) ([]domain.WarehouseStock, error) {
	query := `
		SELECT code, SUM(quantity) AS quantity
		FROM warehouse_stock
		GROUP BY code
	`
	var stock []domain.WarehouseStock
	if err := sqlx.SelectContext(ctx, r.db, &stock, query); err != nil {
		return nil, fmt.Errorf("%w: warehouse_stock: %v", domain.ErrDataUnavailable, err)
	}
	return stock, nil
}

// SalesWindow aggregates units sold per (store, code) over the last N
// days. The upstream feed stores sale dates as DD/MM/YYYY text, so the
// window predicate converts at query time.
func (r *factsRepository) SalesWindow(ctx context.Context, days int) ([]domain.StoreSales, error) {
	query := `
		SELECT store_raw, code, MAX(COALESCE(brand, '')) AS brand,
		       SUM(units) AS units
		FROM sales_history
		WHERE to_date(sold_at, 'DD/MM/YYYY') >= current_date - $1::int
		GROUP BY store_raw, code
		ORDER BY store_raw, code
	`
	var sales []domain.StoreSales
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, days); err != nil {
		return nil, fmt.Errorf("%w: sales_history: %v", domain.ErrDataUnavailable, err)
	}
	return sales, nil
}
