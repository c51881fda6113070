package engine

import (
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
)

// productInfo is the best-known identity of a product, backfilled from
// whatever record mentioned it.
type productInfo struct {
	code  string
	brand string
	color string
}

// expansionRows proposes introducing products that sell across the
// chain into active stores that neither sold them in the expansion
// window nor physically hold them.
func (e *Engine) expansionRows(ds Dataset, r *run, p domain.ReplenishmentParams) []domain.Recommendation {
	totals := make(map[string]int)
	soldAt := make(map[string]map[string]struct{})
	info := make(map[string]productInfo)

	for _, s := range ds.ExpansionSales {
		codeKey := normalize.Code(s.Code)
		if codeKey == "" {
			continue
		}
		id := r.resolver.Resolve(s.StoreRaw)
		if id.Warehouse {
			continue
		}
		totals[codeKey] += s.Units
		storeKey := normalize.Key(id.Canonical)
		if soldAt[codeKey] == nil {
			soldAt[codeKey] = make(map[string]struct{})
		}
		soldAt[codeKey][storeKey] = struct{}{}
		if _, ok := info[codeKey]; !ok {
			info[codeKey] = productInfo{code: s.Code, brand: s.Brand}
		}
	}

	// Positions carry richer identity (brand and color) than sales rows.
	present := make(map[posKey]struct{}, len(r.positions))
	for _, pos := range r.positions {
		present[posKey{store: pos.storeKey, code: pos.codeKey}] = struct{}{}
		known := info[pos.codeKey]
		if known.code == "" {
			known.code = pos.code
		}
		if known.brand == "" {
			known.brand = pos.brand
		}
		if known.color == "" {
			known.color = pos.color
		}
		info[pos.codeKey] = known
	}

	codes := make([]string, 0, len(totals))
	for codeKey, total := range totals {
		if total < p.ExpansionSalesThreshold {
			continue
		}
		if _, excluded := r.excluded[codeKey]; excluded {
			continue
		}
		codes = append(codes, codeKey)
	}
	sort.Strings(codes)

	active := r.resolver.ActiveStores()
	var rows []domain.Recommendation
	for _, codeKey := range codes {
		known := info[codeKey]
		if known.code == "" {
			known.code = codeKey
		}
		for _, store := range active {
			id := r.resolver.Resolve(store.CleanName)
			storeKey := normalize.Key(id.Canonical)
			if _, sold := soldAt[codeKey][storeKey]; sold {
				continue
			}
			if _, has := present[posKey{store: storeKey, code: codeKey}]; has {
				continue
			}
			minimum := r.policy.MinimumFor(known.code, known.brand, id.Fixed)
			rows = append(rows, domain.Recommendation{
				Region:         id.Region,
				Store:          id.Canonical,
				Code:           known.code,
				Brand:          orUnknown(known.brand, domain.UnknownBrand),
				Color:          orUnknown(known.color, domain.UnknownColor),
				SalesInPeriod:  0,
				CurrentStock:   0,
				WarehouseStock: r.warehouse[codeKey],
				Minimum:        minimum,
				Dispatch:       minimum,
				Label:          domain.LabelExpansion,
			})
		}
	}
	return rows
}
