package engine

import (
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
)

// Movement labels every position as moving or idle over the sales
// window and returns a per-store summary alongside the rows.
func (e *Engine) Movement(ds Dataset) ([]domain.MovementRow, []domain.MovementSummary, []string, error) {
	r, err := newRun(ds)
	if err != nil {
		return nil, nil, nil, err
	}

	rows := make([]domain.MovementRow, 0, len(r.positions))
	for _, pos := range r.positions {
		sales := r.sales[posKey{store: pos.storeKey, code: pos.codeKey}]
		state := domain.MovementIdle
		if sales > 0 {
			state = domain.MovementActive
		}
		rows = append(rows, domain.MovementRow{
			Region:        pos.identity.Region,
			Store:         pos.identity.Canonical,
			Code:          pos.code,
			Brand:         orUnknown(pos.brand, domain.UnknownBrand),
			CurrentStock:  pos.quantity,
			SalesInPeriod: sales,
			State:         state,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		return a.Code < b.Code
	})

	type summaryKey struct {
		store string
		state string
	}
	totals := make(map[summaryKey]*domain.MovementSummary)
	order := make([]summaryKey, 0)
	for _, row := range rows {
		key := summaryKey{store: row.Store, state: row.State}
		s, ok := totals[key]
		if !ok {
			s = &domain.MovementSummary{Store: row.Store, State: row.State}
			totals[key] = s
			order = append(order, key)
		}
		s.Products++
		s.TotalStock += row.CurrentStock
	}
	summary := make([]domain.MovementSummary, 0, len(order))
	for _, key := range order {
		summary = append(summary, *totals[key])
	}
	sort.SliceStable(summary, func(i, j int) bool {
		a, b := summary[i], summary[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		return a.State < b.State
	})
	return rows, summary, r.resolver.Unassigned(), nil
}

// Shortages lists, for every product the chain sold in the window, the
// active stores holding no stock of it at all.
func (e *Engine) Shortages(ds Dataset) ([]domain.ShortageRow, []string, error) {
	r, err := newRun(ds)
	if err != nil {
		return nil, nil, err
	}

	type product struct {
		code  string
		brand string
	}
	selling := make(map[string]product)
	sellingOrder := make([]string, 0)
	for _, s := range ds.WindowSales {
		if s.Units <= 0 {
			continue
		}
		codeKey := normalize.Code(s.Code)
		if codeKey == "" || r.isExcluded(codeKey) {
			continue
		}
		if id := r.resolver.Resolve(s.StoreRaw); id.Warehouse {
			continue
		}
		if _, ok := selling[codeKey]; !ok {
			selling[codeKey] = product{code: s.Code, brand: s.Brand}
			sellingOrder = append(sellingOrder, codeKey)
		} else if p := selling[codeKey]; p.brand == "" && s.Brand != "" {
			p.brand = s.Brand
			selling[codeKey] = p
		}
	}
	sort.Strings(sellingOrder)

	stocked := make(map[posKey]struct{}, len(r.positions))
	for _, pos := range r.positions {
		if pos.quantity > 0 {
			stocked[posKey{store: pos.storeKey, code: pos.codeKey}] = struct{}{}
		}
	}

	active := r.resolver.ActiveStores()
	rows := make([]domain.ShortageRow, 0)
	for _, codeKey := range sellingOrder {
		p := selling[codeKey]
		for _, store := range active {
			key := posKey{store: normalize.Key(store.CleanName), code: codeKey}
			if _, ok := stocked[key]; ok {
				continue
			}
			rows = append(rows, domain.ShortageRow{
				Code:  p.code,
				Brand: orUnknown(p.brand, domain.UnknownBrand),
				Store: store.CleanName,
			})
		}
	}
	return rows, r.resolver.Unassigned(), nil
}
