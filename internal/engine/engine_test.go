package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

func testStores() []domain.StoreConfig {
	return []domain.StoreConfig{
		{RawName: "TIENDA CENTRO", CleanName: "Centro", Region: "NORTE", Fixed: true, StoreType: domain.StoreTypeStore},
		{RawName: "TIENDA NORTE", CleanName: "Norte", Region: "NORTE", StoreType: domain.StoreTypeStore},
		{RawName: "SUCURSAL SUR", CleanName: "Sur", Region: "SUR", StoreType: domain.StoreTypeStore},
		{RawName: "BODEGA CENTRAL", CleanName: "Bodega Central", Region: "NORTE", StoreType: domain.StoreTypeWarehouse},
	}
}

func testMinimums() map[string]int {
	return map[string]int{
		"fixed_special": 8,
		"fixed_normal":  5,
		"multi_brand":   2,
		"jgl":           3,
		"jgm":           3,
		"default":       4,
	}
}

func defaultReplenishmentParams() domain.ReplenishmentParams {
	return domain.ReplenishmentParams{
		WindowDays:              10,
		ExpansionWindowDays:     60,
		ExpansionSalesThreshold: 3,
	}
}

func TestValidateReplenishmentParams(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ReplenishmentParams)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(p *domain.ReplenishmentParams) {}},
		{name: "zero window", mutate: func(p *domain.ReplenishmentParams) { p.WindowDays = 0 }, wantErr: true},
		{name: "window over a year", mutate: func(p *domain.ReplenishmentParams) { p.WindowDays = 400 }, wantErr: true},
		{name: "expansion window shorter than window", mutate: func(p *domain.ReplenishmentParams) { p.ExpansionWindowDays = 5 }, wantErr: true},
		{name: "zero expansion threshold", mutate: func(p *domain.ReplenishmentParams) { p.ExpansionSalesThreshold = 0 }, wantErr: true},
		{name: "year-long windows pass", mutate: func(p *domain.ReplenishmentParams) {
			p.WindowDays = 365
			p.ExpansionWindowDays = 365
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultReplenishmentParams()
			tc.mutate(&p)
			err := ValidateReplenishmentParams(p)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRedistributionParams(t *testing.T) {
	err := ValidateRedistributionParams(domain.RedistributionParams{WindowDays: 0, DemandThreshold: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	err = ValidateRedistributionParams(domain.RedistributionParams{WindowDays: 10, DemandThreshold: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	err = ValidateRedistributionParams(domain.RedistributionParams{WindowDays: 10, DemandThreshold: 1})
	assert.NoError(t, err)
}

func TestNewRunRequiresConfiguration(t *testing.T) {
	_, err := newRun(Dataset{Minimums: testMinimums()})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	_, err = newRun(Dataset{Stores: testStores()})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestCollapsePositionsKeepsLatestSnapshot(t *testing.T) {
	old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)

	r, err := newRun(Dataset{
		Stores:   testStores(),
		Minimums: testMinimums(),
		Positions: []domain.StockPosition{
			{StoreRaw: "TIENDA NORTE", Code: "100", Quantity: 9, RecordedAt: old},
			{StoreRaw: "Norte", Code: "100", Quantity: 4, RecordedAt: recent},
		},
	})
	require.NoError(t, err)
	require.Len(t, r.positions, 1)
	assert.Equal(t, 4, r.positions[0].quantity)
	assert.Equal(t, "Centro", r.resolver.Resolve("tienda centro").Canonical)
}

func TestCollapsePositionsDropsWarehouseAndExcluded(t *testing.T) {
	now := time.Now()
	r, err := newRun(Dataset{
		Stores:        testStores(),
		Minimums:      testMinimums(),
		ExcludedCodes: []string{"banned"},
		Positions: []domain.StockPosition{
			{StoreRaw: "BODEGA CENTRAL", Code: "100", Quantity: 50, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "BANNED", Quantity: 3, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "100", Quantity: 3, RecordedAt: now},
		},
	})
	require.NoError(t, err)
	require.Len(t, r.positions, 1)
	assert.Equal(t, "Norte", r.positions[0].identity.Canonical)
}

func TestAggregateSalesMergesRawAliases(t *testing.T) {
	r, err := newRun(Dataset{
		Stores:   testStores(),
		Minimums: testMinimums(),
		WindowSales: []domain.StoreSales{
			{StoreRaw: "TIENDA NORTE", Code: "100", Units: 2},
			{StoreRaw: "norte", Code: "100", Units: 3},
			{StoreRaw: "BODEGA CENTRAL", Code: "100", Units: 7},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, r.sales[posKey{store: "norte", code: "100"}])
}
