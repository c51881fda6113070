// Package repository defines the data access contracts of the report
// service. Implementations live in subpackages per backing store.
package repository

import (
	"context"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

// ConfigRepository reads the operator-managed configuration tables.
type ConfigRepository interface {
	Stores(ctx context.Context) ([]domain.StoreConfig, error)
	Minimums(ctx context.Context) (map[string]int, error)
	FixedReferences(ctx context.Context) ([]string, error)
	MultiBrands(ctx context.Context) ([]string, error)
	ExcludedCodes(ctx context.Context) ([]string, error)
}

// FactsRepository reads the fact snapshots: stock positions, warehouse
// quantities and windowed sales aggregates.
type FactsRepository interface {
	Positions(ctx context.Context) ([]domain.StockPosition, error)
	WarehouseStock(ctx context.Context) ([]domain.WarehouseStock, error)
	SalesWindow(ctx context.Context, days int) ([]domain.StoreSales, error)
}
