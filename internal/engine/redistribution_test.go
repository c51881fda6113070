package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

func redistributionDataset() Dataset {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return Dataset{
		Stores:   testStores(),
		Minimums: testMinimums(),
		Positions: []domain.StockPosition{
			{StoreRaw: "TIENDA NORTE", Code: "777", Brand: "ACME", Quantity: 20, RecordedAt: now},
			{StoreRaw: "TIENDA CENTRO", Code: "777", Brand: "ACME", Quantity: 1, RecordedAt: now},
			{StoreRaw: "SUCURSAL SUR", Code: "777", Brand: "ACME", Quantity: 0, RecordedAt: now},
		},
		WindowSales: []domain.StoreSales{
			{StoreRaw: "TIENDA CENTRO", Code: "777", Brand: "ACME", Units: 2},
			{StoreRaw: "SUCURSAL SUR", Code: "777", Brand: "ACME", Units: 4},
		},
	}
}

func defaultRedistributionParams() domain.RedistributionParams {
	return domain.RedistributionParams{WindowDays: 10, DemandThreshold: 1}
}

func TestRedistributionMatchesWithinRegion(t *testing.T) {
	suggestions, unassigned, err := New(2).Redistribution(redistributionDataset(), defaultRedistributionParams())
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	// Norte holds 20 against a minimum of 4 with no sales; Centro is the
	// only same-region store short of its minimum. Sur is another region.
	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, "NORTE", s.Region)
	assert.Equal(t, "Norte", s.OriginStore)
	assert.Equal(t, "Centro", s.DestinationStore)
	assert.Equal(t, 20, s.OriginStock)
	assert.Equal(t, 0, s.OriginSales)
	assert.Equal(t, 1, s.DestinationStock)
	assert.Equal(t, 2, s.DestinationSales)
	assert.Equal(t, 4, s.DestinationMinimum)
	assert.Equal(t, 3, s.Quantity)
}

func TestRedistributionQuantityCappedByHalvedExcess(t *testing.T) {
	ds := redistributionDataset()
	// Excess of 6 halves to 3, below the destination shortage of 4.
	ds.Positions[0].Quantity = 10
	ds.Positions[1].Quantity = 0

	suggestions, _, err := New(2).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 3, suggestions[0].Quantity)
}

func TestRedistributionMovesAtLeastOneUnit(t *testing.T) {
	ds := redistributionDataset()
	ds.Positions[0].Quantity = 5

	suggestions, _, err := New(2).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 1, suggestions[0].Quantity)
}

func TestRedistributionSellingOriginNeverGives(t *testing.T) {
	ds := redistributionDataset()
	ds.WindowSales = append(ds.WindowSales, domain.StoreSales{
		StoreRaw: "TIENDA NORTE", Code: "777", Brand: "ACME", Units: 1,
	})
	suggestions, _, err := New(2).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRedistributionFixedStoreNeverGives(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	ds := redistributionDataset()
	// The overstocked position moves to the fixed store.
	ds.Positions = []domain.StockPosition{
		{StoreRaw: "TIENDA CENTRO", Code: "777", Brand: "ACME", Quantity: 20, RecordedAt: now},
		{StoreRaw: "TIENDA NORTE", Code: "777", Brand: "ACME", Quantity: 1, RecordedAt: now},
	}
	ds.WindowSales = []domain.StoreSales{
		{StoreRaw: "TIENDA NORTE", Code: "777", Brand: "ACME", Units: 2},
	}
	suggestions, _, err := New(2).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRedistributionDemandThresholdFiltersDestinations(t *testing.T) {
	p := defaultRedistributionParams()
	p.DemandThreshold = 3

	suggestions, _, err := New(2).Redistribution(redistributionDataset(), p)
	require.NoError(t, err)
	// Centro sold 2, below the threshold; Sur sold enough but is in
	// another region.
	assert.Empty(t, suggestions)
}

func TestRedistributionBrandMismatchNeverMatches(t *testing.T) {
	ds := redistributionDataset()
	ds.Positions[1].Brand = "OTRA"
	ds.WindowSales[0].Brand = "OTRA"

	suggestions, _, err := New(2).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRedistributionSingleOrigin(t *testing.T) {
	ds := redistributionDataset()

	p := defaultRedistributionParams()
	p.OriginStore = "TIENDA NORTE"
	suggestions, _, err := New(2).Redistribution(ds, p)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Norte", suggestions[0].OriginStore)

	// A store with no surplus yields an empty result, not an error.
	p.OriginStore = "SUCURSAL SUR"
	suggestions, _, err = New(2).Redistribution(ds, p)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestRedistributionCustomDivisor(t *testing.T) {
	suggestions, _, err := New(4).Redistribution(redistributionDataset(), defaultRedistributionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	// Excess of 16 quartered is 4, still clipped to the shortage of 3.
	assert.Equal(t, 3, suggestions[0].Quantity)

	ds := redistributionDataset()
	ds.Positions[1].Quantity = 0
	suggestions, _, err = New(4).Redistribution(ds, defaultRedistributionParams())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 4, suggestions[0].Quantity)
}
