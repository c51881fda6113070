package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

func replenishmentDataset() Dataset {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return Dataset{
		Stores:          testStores(),
		Minimums:        testMinimums(),
		FixedReferences: []string{"123"},
		Positions: []domain.StockPosition{
			{StoreRaw: "TIENDA CENTRO", Code: "123", Brand: "ACME", Color: "NEGRO", Quantity: 2, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "456", Brand: "ACME", Color: "CAFE", Quantity: 1, RecordedAt: now},
			{StoreRaw: "SUCURSAL SUR", Code: "789", Brand: "ACME", Quantity: 10, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "999", Brand: "ACME", Quantity: 1, RecordedAt: now},
		},
		Warehouse: []domain.WarehouseStock{
			{Code: "123", Quantity: 10},
		},
		WindowSales: []domain.StoreSales{
			{StoreRaw: "TIENDA NORTE", Code: "456", Brand: "ACME", Units: 3},
			{StoreRaw: "SUCURSAL SUR", Code: "789", Brand: "ACME", Units: 5},
		},
	}
}

func findRow(t *testing.T, rows []domain.Recommendation, store, code string) domain.Recommendation {
	t.Helper()
	for _, row := range rows {
		if row.Store == store && row.Code == code {
			return row
		}
	}
	t.Fatalf("no row for store %q code %q", store, code)
	return domain.Recommendation{}
}

func TestReplenishmentFixedReferenceDispatchesWithoutSales(t *testing.T) {
	rows, unassigned, err := New(2).Replenishment(replenishmentDataset(), defaultReplenishmentParams())
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	row := findRow(t, rows, "Centro", "123")
	assert.Equal(t, 8, row.Minimum)
	assert.Equal(t, 6, row.Dispatch)
	assert.Equal(t, 0, row.SalesInPeriod)
	assert.Equal(t, domain.LabelRestock, row.Label)
}

func TestReplenishmentPurchaseWhenWarehouseShort(t *testing.T) {
	rows, _, err := New(2).Replenishment(replenishmentDataset(), defaultReplenishmentParams())
	require.NoError(t, err)

	row := findRow(t, rows, "Norte", "456")
	assert.Equal(t, 4, row.Minimum)
	assert.Equal(t, 3, row.Dispatch)
	assert.Equal(t, 0, row.WarehouseStock)
	assert.Equal(t, domain.LabelPurchase, row.Label)
}

func TestReplenishmentDropsSatisfiedAndDeadRows(t *testing.T) {
	rows, _, err := New(2).Replenishment(replenishmentDataset(), defaultReplenishmentParams())
	require.NoError(t, err)

	for _, row := range rows {
		// Stock above minimum and no-sales non-fixed rows never surface.
		assert.NotEqual(t, "789", row.Code)
		assert.NotEqual(t, "999", row.Code)
		assert.NotEqual(t, domain.LabelOK, row.Label)
		assert.Greater(t, row.Dispatch, 0)
	}
}

func TestReplenishmentExcludeNoMovementIsSubset(t *testing.T) {
	ds := replenishmentDataset()
	all, _, err := New(2).Replenishment(ds, defaultReplenishmentParams())
	require.NoError(t, err)

	p := defaultReplenishmentParams()
	p.ExcludeNoMovement = true
	moving, _, err := New(2).Replenishment(ds, p)
	require.NoError(t, err)

	index := make(map[domain.Recommendation]struct{}, len(all))
	for _, row := range all {
		index[row] = struct{}{}
	}
	for _, row := range moving {
		_, ok := index[row]
		assert.True(t, ok, "row %+v not present in unfiltered report", row)
	}
	// The fixed-reference row has no sales, so it is filtered out here.
	assert.Less(t, len(moving), len(all))

	p.IncludeFixed = true
	withFixed, _, err := New(2).Replenishment(ds, p)
	require.NoError(t, err)
	row := findRow(t, withFixed, "Centro", "123")
	assert.Equal(t, 6, row.Dispatch)
}

func TestReplenishmentExcludedCodesNeverAppear(t *testing.T) {
	ds := replenishmentDataset()
	ds.ExcludedCodes = []string{"456", "exp1", "nv1"}
	ds.ExpansionSales = []domain.StoreSales{
		{StoreRaw: "TIENDA CENTRO", Code: "EXP1", Brand: "ACME", Units: 5},
	}
	p := defaultReplenishmentParams()
	p.NewProducts = []domain.NewProduct{{Code: "NV1", Brand: "ACME"}}

	rows, _, err := New(2).Replenishment(ds, p)
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, "456", row.Code)
		assert.NotEqual(t, "EXP1", row.Code)
		assert.NotEqual(t, "NV1", row.Code)
	}
}

func TestReplenishmentNewProductFansOutToActiveStores(t *testing.T) {
	ds := replenishmentDataset()
	p := defaultReplenishmentParams()
	p.NewProducts = []domain.NewProduct{{Code: "NV1", Brand: "ACME", Color: "ROJO"}}

	rows, _, err := New(2).Replenishment(ds, p)
	require.NoError(t, err)

	var stores []string
	for _, row := range rows {
		if row.Label != domain.LabelNew {
			continue
		}
		stores = append(stores, row.Store)
		assert.Equal(t, "NV1", row.Code)
		assert.Equal(t, 4, row.Minimum)
		assert.Equal(t, 4, row.Dispatch)
		assert.Equal(t, 0, row.CurrentStock)
	}
	assert.ElementsMatch(t, []string{"Centro", "Norte", "Sur"}, stores)
}

func TestReplenishmentOnlyWithSalesKeepsExpansionAndNew(t *testing.T) {
	ds := replenishmentDataset()
	ds.ExpansionSales = []domain.StoreSales{
		{StoreRaw: "TIENDA CENTRO", Code: "EXP1", Brand: "ACME", Units: 5},
	}
	p := defaultReplenishmentParams()
	p.OnlyWithSales = true
	p.NewProducts = []domain.NewProduct{{Code: "NV1", Brand: "ACME"}}

	rows, _, err := New(2).Replenishment(ds, p)
	require.NoError(t, err)

	labels := make(map[string]bool)
	for _, row := range rows {
		labels[row.Label] = true
		if row.Label != domain.LabelExpansion && row.Label != domain.LabelNew {
			assert.Greater(t, row.SalesInPeriod, 0)
		}
	}
	assert.True(t, labels[domain.LabelExpansion])
	assert.True(t, labels[domain.LabelNew])
}

func TestReplenishmentCollectsUnassignedStores(t *testing.T) {
	ds := replenishmentDataset()
	ds.Positions = append(ds.Positions, domain.StockPosition{
		StoreRaw: "KIOSCO DESCONOCIDO", Code: "456", Brand: "ACME", Quantity: 1, RecordedAt: time.Now(),
	})
	rows, unassigned, err := New(2).Replenishment(ds, defaultReplenishmentParams())
	require.NoError(t, err)
	assert.Equal(t, []string{"KIOSCO DESCONOCIDO"}, unassigned)

	row := findRow(t, rows, "KIOSCO DESCONOCIDO", "456")
	assert.Equal(t, domain.RegionUnassigned, row.Region)
}

func TestReplenishmentSortedByRegionStoreBrandCode(t *testing.T) {
	rows, _, err := New(2).Replenishment(replenishmentDataset(), defaultReplenishmentParams())
	require.NoError(t, err)
	key := func(r domain.Recommendation) string {
		return strings.Join([]string{r.Region, r.Store, r.Brand, r.Code}, "\x00")
	}
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, key(rows[i-1]), key(rows[i]))
	}
}
