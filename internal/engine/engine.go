// Package engine computes the replenishment, expansion, redistribution,
// movement and shortage reports. Every computation is a pure function
// of a Dataset snapshot and the request parameters: nothing here reads
// the database, keeps state between runs or mutates the snapshot.
package engine

import (
	"fmt"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
	"github.com/jagimahalo/restock-backend/internal/policy"
	"github.com/jagimahalo/restock-backend/internal/stores"
)

// maxWindowDays bounds every lookback window.
const maxWindowDays = 365

// Dataset is the consistent snapshot a report is computed from. The
// repository assembles it in one pass; the engine treats it as
// read-only.
type Dataset struct {
	Stores          []domain.StoreConfig
	Minimums        map[string]int
	FixedReferences []string
	MultiBrands     []string
	ExcludedCodes   []string
	Positions       []domain.StockPosition
	Warehouse       []domain.WarehouseStock
	WindowSales     []domain.StoreSales
	ExpansionSales  []domain.StoreSales
}

// Engine holds the tuning constants of the recommendation rules.
type Engine struct {
	// transferDivisor divides the origin excess when sizing a
	// redistribution transfer, so an origin store is never drained.
	transferDivisor int
}

// New returns an Engine. A divisor below 1 falls back to halving.
func New(transferDivisor int) *Engine {
	if transferDivisor < 1 {
		transferDivisor = 2
	}
	return &Engine{transferDivisor: transferDivisor}
}

// ValidateReplenishmentParams rejects out-of-range windows and
// thresholds before any computation starts.
func ValidateReplenishmentParams(p domain.ReplenishmentParams) error {
	if p.WindowDays < 1 || p.WindowDays > maxWindowDays {
		return fmt.Errorf("%w: window_days %d outside [1, %d]", domain.ErrInvalidParameter, p.WindowDays, maxWindowDays)
	}
	if p.ExpansionWindowDays < 1 || p.ExpansionWindowDays > maxWindowDays {
		return fmt.Errorf("%w: expansion_window_days %d outside [1, %d]", domain.ErrInvalidParameter, p.ExpansionWindowDays, maxWindowDays)
	}
	if p.ExpansionWindowDays < p.WindowDays {
		return fmt.Errorf("%w: expansion_window_days %d shorter than window_days %d", domain.ErrInvalidParameter, p.ExpansionWindowDays, p.WindowDays)
	}
	if p.ExpansionSalesThreshold < 1 {
		return fmt.Errorf("%w: expansion_sales_threshold %d below 1", domain.ErrInvalidParameter, p.ExpansionSalesThreshold)
	}
	return nil
}

// ValidateWindowDays bounds a plain lookback window, as used by the
// movement and shortage reports.
func ValidateWindowDays(days int) error {
	if days < 1 || days > maxWindowDays {
		return fmt.Errorf("%w: days %d outside [1, %d]", domain.ErrInvalidParameter, days, maxWindowDays)
	}
	return nil
}

// ValidateRedistributionParams rejects out-of-range windows and
// thresholds before any computation starts.
func ValidateRedistributionParams(p domain.RedistributionParams) error {
	if p.WindowDays < 1 || p.WindowDays > maxWindowDays {
		return fmt.Errorf("%w: window_days %d outside [1, %d]", domain.ErrInvalidParameter, p.WindowDays, maxWindowDays)
	}
	if p.DemandThreshold < 1 {
		return fmt.Errorf("%w: demand_threshold %d below 1", domain.ErrInvalidParameter, p.DemandThreshold)
	}
	return nil
}

// posKey identifies a canonical (store, product) position.
type posKey struct {
	store string
	code  string
}

// position is a deduplicated stock position resolved to its canonical
// store identity.
type position struct {
	identity stores.Identity
	storeKey string
	code     string
	codeKey  string
	brand    string
	color    string
	quantity int
	recorded int64
}

// run is the per-computation working set shared by the report builders.
type run struct {
	resolver  *stores.Resolver
	policy    *policy.Engine
	excluded  map[string]struct{}
	warehouse map[string]int
	positions []position
	sales     map[posKey]int
}

// newRun validates the configuration tables and prepares the resolver,
// policy engine and lookup sets for one computation.
func newRun(ds Dataset) (*run, error) {
	if len(ds.Stores) == 0 {
		return nil, fmt.Errorf("%w: store_config is empty", domain.ErrConfigurationMissing)
	}
	if len(ds.Minimums) == 0 {
		return nil, fmt.Errorf("%w: stock_minimums is empty", domain.ErrConfigurationMissing)
	}

	r := &run{
		resolver:  stores.NewResolver(ds.Stores),
		policy:    policy.New(ds.Minimums, ds.FixedReferences, ds.MultiBrands),
		excluded:  make(map[string]struct{}, len(ds.ExcludedCodes)),
		warehouse: make(map[string]int, len(ds.Warehouse)),
	}
	for _, code := range ds.ExcludedCodes {
		if c := normalize.Code(code); c != "" {
			r.excluded[c] = struct{}{}
		}
	}
	for _, w := range ds.Warehouse {
		r.warehouse[normalize.Code(w.Code)] += w.Quantity
	}
	r.positions = r.collapsePositions(ds.Positions)
	r.sales = r.aggregateSales(ds.WindowSales)
	return r, nil
}

func (r *run) isExcluded(code string) bool {
	_, ok := r.excluded[normalize.Code(code)]
	return ok
}

// collapsePositions resolves raw positions to canonical stores, drops
// excluded codes and warehouse stores, and keeps only the most recent
// snapshot when several raw names collapse to one canonical position.
func (r *run) collapsePositions(raw []domain.StockPosition) []position {
	latest := make(map[posKey]position, len(raw))
	order := make([]posKey, 0, len(raw))

	for _, p := range raw {
		codeKey := normalize.Code(p.Code)
		if codeKey == "" {
			continue
		}
		if _, ok := r.excluded[codeKey]; ok {
			continue
		}
		id := r.resolver.Resolve(p.StoreRaw)
		if id.Warehouse {
			continue
		}
		pos := position{
			identity: id,
			storeKey: normalize.Key(id.Canonical),
			code:     p.Code,
			codeKey:  codeKey,
			brand:    p.Brand,
			color:    p.Color,
			quantity: p.Quantity,
			recorded: p.RecordedAt.Unix(),
		}
		key := posKey{store: pos.storeKey, code: codeKey}
		prev, seen := latest[key]
		if !seen {
			order = append(order, key)
			latest[key] = pos
			continue
		}
		if pos.recorded >= prev.recorded {
			latest[key] = pos
		}
	}

	out := make([]position, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}

// aggregateSales sums window sales per canonical (store, product),
// skipping warehouse stores.
func (r *run) aggregateSales(sales []domain.StoreSales) map[posKey]int {
	agg := make(map[posKey]int, len(sales))
	for _, s := range sales {
		id := r.resolver.Resolve(s.StoreRaw)
		if id.Warehouse {
			continue
		}
		key := posKey{store: normalize.Key(id.Canonical), code: normalize.Code(s.Code)}
		agg[key] += s.Units
	}
	return agg
}

func orUnknown(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
