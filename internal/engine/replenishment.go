package engine

import (
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
	"github.com/jagimahalo/restock-backend/internal/policy"
)

// Replenishment computes the combined replenishment report: dispatch
// needs per position, expansion candidates and operator-supplied new
// codes. The second return value lists the raw store names that
// resolved to no region, for operator review.
func (e *Engine) Replenishment(ds Dataset, p domain.ReplenishmentParams) ([]domain.Recommendation, []string, error) {
	if err := ValidateReplenishmentParams(p); err != nil {
		return nil, nil, err
	}
	r, err := newRun(ds)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]domain.Recommendation, 0, len(r.positions))
	for _, pos := range r.positions {
		sales := r.sales[posKey{store: pos.storeKey, code: pos.codeKey}]
		minimum := r.policy.MinimumFor(pos.code, pos.brand, pos.identity.Fixed)
		fixedRef := r.policy.IsFixedReference(pos.code)

		// Dispatch only when the product moves or is policy-protected;
		// dead SKUs never generate a recommendation.
		dispatch := 0
		if sales > 0 || fixedRef {
			if d := minimum - pos.quantity; d > 0 {
				dispatch = d
			}
		}

		warehouseQty := r.warehouse[pos.codeKey]
		label := domain.LabelOK
		switch {
		case dispatch == 0:
			label = domain.LabelOK
		case dispatch > warehouseQty:
			label = domain.LabelPurchase
		default:
			label = domain.LabelRestock
		}

		if p.ExcludeNoMovement && sales == 0 {
			if !(p.IncludeFixed && fixedRef) {
				continue
			}
		}

		rows = append(rows, domain.Recommendation{
			Region:         pos.identity.Region,
			Store:          pos.identity.Canonical,
			Code:           pos.code,
			Brand:          orUnknown(pos.brand, domain.UnknownBrand),
			Color:          orUnknown(pos.color, domain.UnknownColor),
			SalesInPeriod:  sales,
			CurrentStock:   pos.quantity,
			WarehouseStock: warehouseQty,
			Minimum:        minimum,
			Dispatch:       dispatch,
			Label:          label,
		})
	}

	rows = append(rows, e.expansionRows(ds, r, p)...)
	rows = append(rows, e.newProductRows(r, p.NewProducts)...)

	// Only actionable rows surface.
	actionable := rows[:0]
	for _, row := range rows {
		if row.Label != domain.LabelOK {
			actionable = append(actionable, row)
		}
	}
	rows = actionable

	if p.OnlyWithSales {
		filtered := rows[:0]
		for _, row := range rows {
			if row.SalesInPeriod > 0 || row.Label == domain.LabelExpansion || row.Label == domain.LabelNew {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	sortRecommendations(rows)
	return rows, r.resolver.Unassigned(), nil
}

// newProductRows fans each operator-supplied new code out to every
// active store at the default-bucket minimum.
func (e *Engine) newProductRows(r *run, products []domain.NewProduct) []domain.Recommendation {
	if len(products) == 0 {
		return nil
	}
	minimum := r.policy.MinStock(policy.BucketDefault)

	var rows []domain.Recommendation
	for _, np := range products {
		if normalize.Code(np.Code) == "" || r.isExcluded(np.Code) {
			continue
		}
		for _, store := range r.resolver.ActiveStores() {
			id := r.resolver.Resolve(store.CleanName)
			rows = append(rows, domain.Recommendation{
				Region:         id.Region,
				Store:          id.Canonical,
				Code:           np.Code,
				Brand:          orUnknown(np.Brand, domain.UnknownBrand),
				Color:          orUnknown(np.Color, domain.UnknownColor),
				SalesInPeriod:  0,
				CurrentStock:   0,
				WarehouseStock: r.warehouse[normalize.Code(np.Code)],
				Minimum:        minimum,
				Dispatch:       minimum,
				Label:          domain.LabelNew,
			})
		}
	}
	return rows
}

func sortRecommendations(rows []domain.Recommendation) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		return a.Code < b.Code
	})
}
