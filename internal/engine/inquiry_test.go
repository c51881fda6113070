package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

func inquiryDataset() InquiryDataset {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return InquiryDataset{
		Stores: testStores(),
		Positions: []domain.StockPosition{
			{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Color: "NEGRO", Quantity: 10, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "P1", Brand: "ACME", Quantity: 5, RecordedAt: now},
			{StoreRaw: "TIENDA NORTE", Code: "OTHER", Brand: "ACME", Quantity: 50, RecordedAt: now},
		},
		Warehouse: []domain.WarehouseStock{
			{Code: "P1", Quantity: 20},
			{Code: "OTHER", Quantity: 3},
		},
		Sales30: []domain.StoreSales{
			{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Units: 4},
			{StoreRaw: "TIENDA NORTE", Code: "P1", Brand: "ACME", Units: 2},
		},
		Sales60: []domain.StoreSales{
			{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Units: 9},
		},
		Sales90: []domain.StoreSales{
			{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Units: 14},
		},
	}
}

func TestInquiryAggregatesStockAndSales(t *testing.T) {
	inq, err := New(2).Inquiry(inquiryDataset(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "P1", inq.Code)
	assert.Equal(t, "ACME", inq.Brand)
	assert.Equal(t, "NEGRO", inq.Color)
	assert.Equal(t, 15, inq.StoreStock)
	assert.Equal(t, 20, inq.WarehouseStock)
	assert.Equal(t, 35, inq.TotalStock)
	assert.Equal(t, 6, inq.Sales30)
	assert.Equal(t, 9, inq.Sales60)
	assert.Equal(t, 14, inq.Sales90)

	assert.Equal(t, []domain.ProductDistribution{
		{Store: "Centro", Stock: 10, Sales: 4},
		{Store: "Norte", Stock: 5, Sales: 2},
	}, inq.Distribution)
	assert.Equal(t, []string{"Sur"}, inq.MissingStores)
}

func TestInquiryHealthyStatus(t *testing.T) {
	inq, err := New(2).Inquiry(inquiryDataset(), "P1")
	require.NoError(t, err)

	assert.InDelta(t, 0.2, inq.DailyVelocity, 1e-9)
	assert.Equal(t, 75, inq.DaysToDeplete)
	assert.Equal(t, domain.ProductStatusHealthy, inq.Status)
}

func TestInquiryCriticalWhenStoreStockRunsOutFast(t *testing.T) {
	ds := inquiryDataset()
	ds.Positions = []domain.StockPosition{
		{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Quantity: 2, RecordedAt: time.Now()},
	}

	// Warehouse still holds 20 units, but shelves deplete on store
	// stock alone.
	inq, err := New(2).Inquiry(ds, "P1")
	require.NoError(t, err)
	assert.Equal(t, 20, inq.WarehouseStock)
	assert.Equal(t, 10, inq.DaysToDeplete)
	assert.Equal(t, domain.ProductStatusCritical, inq.Status)
}

func TestInquiryWarningStatus(t *testing.T) {
	ds := inquiryDataset()
	ds.Positions = []domain.StockPosition{
		{StoreRaw: "TIENDA CENTRO", Code: "P1", Brand: "ACME", Quantity: 4, RecordedAt: time.Now()},
	}
	ds.Warehouse = nil

	inq, err := New(2).Inquiry(ds, "P1")
	require.NoError(t, err)
	assert.Equal(t, 20, inq.DaysToDeplete)
	assert.Equal(t, domain.ProductStatusWarning, inq.Status)
}

func TestInquiryIdleProductHasSentinelDepletion(t *testing.T) {
	ds := inquiryDataset()
	ds.Sales30 = nil

	inq, err := New(2).Inquiry(ds, "P1")
	require.NoError(t, err)
	assert.Equal(t, 0, inq.Sales30)
	assert.Equal(t, 0.0, inq.DailyVelocity)
	assert.Equal(t, 999, inq.DaysToDeplete)
	assert.Equal(t, domain.ProductStatusIdle, inq.Status)
}

func TestInquiryUnknownCodeStillAnswers(t *testing.T) {
	inq, err := New(2).Inquiry(inquiryDataset(), "NOPE")
	require.NoError(t, err)
	assert.Equal(t, 0, inq.TotalStock)
	assert.Equal(t, domain.UnknownBrand, inq.Brand)
	assert.Equal(t, domain.ProductStatusIdle, inq.Status)
	assert.ElementsMatch(t, []string{"Centro", "Norte", "Sur"}, inq.MissingStores)
}

func TestInquiryRejectsEmptyCode(t *testing.T) {
	_, err := New(2).Inquiry(inquiryDataset(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
