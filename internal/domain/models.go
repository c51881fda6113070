package domain

import "time"

// Recommendation labels. The Spanish values are the contract with the
// operations team and the historical reports, so they are kept verbatim.
const (
	LabelOK        = "OK"
	LabelRestock   = "REABASTECER"
	LabelPurchase  = "COMPRA"
	LabelExpansion = "EXPANSION"
	LabelNew       = "NUEVO"
)

// Movement states for the movement report.
const (
	MovementActive = "EN MOVIMIENTO"
	MovementIdle   = "SIN MOVIMIENTO"
)

// Store types. The warehouse pseudo-store is excluded from every
// recommendation by type, never by name matching.
const (
	StoreTypeStore     = "store"
	StoreTypeWarehouse = "warehouse"
)

// Defaults applied when optional per-row data is missing.
const (
	RegionUnassigned = "UNASSIGNED"
	UnknownBrand     = "UNKNOWN"
	UnknownColor     = "UNKNOWN"
)

// StoreConfig maps a raw point-of-sale store name to its canonical
// identity. Managed externally; read-only here.
type StoreConfig struct {
	RawName   string `json:"raw_name" db:"raw_name"`
	CleanName string `json:"clean_name" db:"clean_name"`
	Region    string `json:"region" db:"region"`
	Fixed     bool   `json:"fixed" db:"fixed_store"`
	StoreType string `json:"store_type" db:"store_type"`
}

// StockPosition is the on-hand quantity of a product at a store at a
// point in time. Snapshot semantics: each load replaces the prior one.
type StockPosition struct {
	StoreRaw   string    `json:"store" db:"store_raw"`
	Code       string    `json:"code" db:"code"`
	Brand      string    `json:"brand" db:"brand"`
	Color      string    `json:"color" db:"color"`
	Quantity   int       `json:"quantity" db:"quantity"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

// WarehouseStock is the central warehouse quantity for a product.
type WarehouseStock struct {
	Code     string `json:"code" db:"code"`
	Quantity int    `json:"quantity" db:"quantity"`
}

// StoreSales is a per (store, product) sales total aggregated over a
// lookback window.
type StoreSales struct {
	StoreRaw string `json:"store" db:"store_raw"`
	Code     string `json:"code" db:"code"`
	Brand    string `json:"brand" db:"brand"`
	Units    int    `json:"units" db:"units"`
}

// NewProduct is an operator-supplied code being introduced to the chain.
type NewProduct struct {
	Code  string `json:"code"`
	Brand string `json:"brand"`
	Color string `json:"color"`
}

// Recommendation is one actionable row of the replenishment report.
// Transient: computed per request, never persisted.
type Recommendation struct {
	Region         string `json:"region"`
	Store          string `json:"store"`
	Code           string `json:"code"`
	Brand          string `json:"brand"`
	Color          string `json:"color"`
	SalesInPeriod  int    `json:"sales_in_period"`
	CurrentStock   int    `json:"current_stock"`
	WarehouseStock int    `json:"warehouse_stock"`
	Minimum        int    `json:"minimum"`
	Dispatch       int    `json:"dispatch"`
	Label          string `json:"label"`
}

// TransferSuggestion is one proposed store-to-store transfer of the
// redistribution report.
type TransferSuggestion struct {
	Region             string `json:"region"`
	Code               string `json:"code"`
	Brand              string `json:"brand"`
	OriginStore        string `json:"origin_store"`
	OriginStock        int    `json:"origin_stock"`
	OriginSales        int    `json:"origin_sales"`
	DestinationStore   string `json:"destination_store"`
	DestinationStock   int    `json:"destination_stock"`
	DestinationSales   int    `json:"destination_sales"`
	DestinationMinimum int    `json:"destination_minimum"`
	Quantity           int    `json:"quantity"`
}

// MovementRow classifies a position as moving or idle over a window.
type MovementRow struct {
	Region        string `json:"region"`
	Store         string `json:"store"`
	Code          string `json:"code"`
	Brand         string `json:"brand"`
	CurrentStock  int    `json:"current_stock"`
	SalesInPeriod int    `json:"sales_in_period"`
	State         string `json:"state"`
}

// MovementSummary aggregates movement rows per store and state.
type MovementSummary struct {
	Store      string `json:"store"`
	State      string `json:"state"`
	Products   int    `json:"products"`
	TotalStock int    `json:"total_stock"`
}

// ShortageRow marks an active store that carries no stock of a product
// the chain is selling.
type ShortageRow struct {
	Code  string `json:"code"`
	Brand string `json:"brand"`
	Store string `json:"store"`
}

// ProductDistribution is a product's stock and sales at one store.
type ProductDistribution struct {
	Store string `json:"store"`
	Stock int    `json:"stock"`
	Sales int    `json:"sales"`
}

// ProductInquiry is the full per-product view served by the product
// lookup endpoint.
type ProductInquiry struct {
	Code           string                `json:"code"`
	Brand          string                `json:"brand"`
	Color          string                `json:"color"`
	TotalStock     int                   `json:"total_stock"`
	WarehouseStock int                   `json:"warehouse_stock"`
	StoreStock     int                   `json:"store_stock"`
	Sales30        int                   `json:"sales_30"`
	Sales60        int                   `json:"sales_60"`
	Sales90        int                   `json:"sales_90"`
	DailyVelocity  float64               `json:"daily_velocity"`
	DaysToDeplete  int                   `json:"days_to_deplete"`
	Distribution   []ProductDistribution `json:"distribution"`
	MissingStores  []string              `json:"missing_stores"`
	Status         string                `json:"status"`
}

// Product inquiry statuses.
const (
	ProductStatusIdle     = "sin_movimiento"
	ProductStatusCritical = "critico"
	ProductStatusWarning  = "alerta"
	ProductStatusHealthy  = "optimo"
)

// ReplenishmentParams are the inputs of the replenishment computation.
type ReplenishmentParams struct {
	WindowDays              int          `json:"window_days"`
	ExpansionWindowDays     int          `json:"expansion_window_days"`
	ExpansionSalesThreshold int          `json:"expansion_sales_threshold"`
	ExcludeNoMovement       bool         `json:"exclude_no_movement"`
	IncludeFixed            bool         `json:"include_fixed"`
	OnlyWithSales           bool         `json:"only_with_sales"`
	NewProducts             []NewProduct `json:"new_products"`
}

// RedistributionParams are the inputs of the redistribution matcher.
// OriginStore, when set, restricts origins to a single store.
type RedistributionParams struct {
	WindowDays      int    `json:"window_days"`
	DemandThreshold int    `json:"demand_threshold"`
	OriginStore     string `json:"origin_store"`
}
