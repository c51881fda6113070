package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

type configRepository struct {
	db *DB
}

// NewConfigRepository reads the operator-managed configuration tables.
func NewConfigRepository(db *DB) *configRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Stores(ctx context.Context) ([]domain.StoreConfig, error) {
	query := `
		SELECT raw_name, clean_name, region, fixed_store, store_type
		FROM store_config
		ORDER BY clean_name, raw_name
	`
	var stores []domain.StoreConfig
	if err := sqlx.SelectContext(ctx, r.db, &stores, query); err != nil {
		return nil, fmt.Errorf("%w: store_config: %v", domain.ErrDataUnavailable, err)
	}
	return stores, nil
}

func (r *configRepository) Minimums(ctx context.Context) (map[string]int, error) {
	query := `SELECT bucket, quantity FROM stock_minimums`
	rows := []struct {
		Bucket   string `db:"bucket"`
		Quantity int    `db:"quantity"`
	}{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: stock_minimums: %v", domain.ErrDataUnavailable, err)
	}
	minimums := make(map[string]int, len(rows))
	for _, row := range rows {
		minimums[row.Bucket] = row.Quantity
	}
	return minimums, nil
}

func (r *configRepository) FixedReferences(ctx context.Context) ([]string, error) {
	return r.codeList(ctx, `SELECT code FROM fixed_references ORDER BY code`, "fixed_references")
}

func (r *configRepository) MultiBrands(ctx context.Context) ([]string, error) {
	return r.codeList(ctx, `SELECT brand FROM multi_brands ORDER BY brand`, "multi_brands")
}

func (r *configRepository) ExcludedCodes(ctx context.Context) ([]string, error) {
	return r.codeList(ctx, `SELECT code FROM excluded_codes ORDER BY code`, "excluded_codes")
}

func (r *configRepository) codeList(ctx context.Context, query, table string) ([]string, error) {
	var values []string
	if err := sqlx.SelectContext(ctx, r.db, &values, query); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, table, err)
	}
	return values, nil
}
