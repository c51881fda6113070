package engine

import (
	"fmt"
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
	"github.com/jagimahalo/restock-backend/internal/stores"
)

// depletedSentinel stands in for "never depletes" when a product shows
// stock but no recent sales.
const depletedSentinel = 999

// InquiryDataset is the snapshot behind a single product lookup. The
// sales slices cover fixed 30, 60 and 90 day windows for the product.
type InquiryDataset struct {
	Stores    []domain.StoreConfig
	Positions []domain.StockPosition
	Warehouse []domain.WarehouseStock
	Sales30   []domain.StoreSales
	Sales60   []domain.StoreSales
	Sales90   []domain.StoreSales
}

// Inquiry builds the full per-product view: stock split across stores
// and warehouse, sales at three horizons, velocity and a depletion
// status. Minimums and policy tables play no part here, so only the
// store directory is required.
func (e *Engine) Inquiry(ds InquiryDataset, code string) (*domain.ProductInquiry, error) {
	codeKey := normalize.Code(code)
	if codeKey == "" {
		return nil, fmt.Errorf("%w: empty product code", domain.ErrInvalidParameter)
	}
	if len(ds.Stores) == 0 {
		return nil, fmt.Errorf("%w: store_config is empty", domain.ErrConfigurationMissing)
	}
	resolver := stores.NewResolver(ds.Stores)

	inquiry := &domain.ProductInquiry{
		Code:  codeKey,
		Brand: domain.UnknownBrand,
		Color: domain.UnknownColor,
	}
	for _, w := range ds.Warehouse {
		if normalize.Code(w.Code) == codeKey {
			inquiry.WarehouseStock += w.Quantity
		}
	}

	type storeView struct {
		stock int
		sales int
	}
	views := make(map[string]*storeView)
	names := make([]string, 0)
	view := func(store string) *storeView {
		v, ok := views[store]
		if !ok {
			v = &storeView{}
			views[store] = v
			names = append(names, store)
		}
		return v
	}

	for _, pos := range ds.Positions {
		if normalize.Code(pos.Code) != codeKey {
			continue
		}
		id := resolver.Resolve(pos.StoreRaw)
		if id.Warehouse {
			continue
		}
		if pos.Brand != "" {
			inquiry.Brand = pos.Brand
		}
		if pos.Color != "" {
			inquiry.Color = pos.Color
		}
		inquiry.StoreStock += pos.Quantity
		view(id.Canonical).stock += pos.Quantity
	}

	for _, s := range ds.Sales30 {
		if normalize.Code(s.Code) != codeKey {
			continue
		}
		id := resolver.Resolve(s.StoreRaw)
		if id.Warehouse {
			continue
		}
		inquiry.Sales30 += s.Units
		view(id.Canonical).sales += s.Units
	}
	inquiry.Sales60 = sumSalesFor(resolver, ds.Sales60, codeKey)
	inquiry.Sales90 = sumSalesFor(resolver, ds.Sales90, codeKey)
	inquiry.TotalStock = inquiry.StoreStock + inquiry.WarehouseStock

	sort.Strings(names)
	inquiry.Distribution = make([]domain.ProductDistribution, 0, len(names))
	for _, name := range names {
		v := views[name]
		inquiry.Distribution = append(inquiry.Distribution, domain.ProductDistribution{
			Store: name,
			Stock: v.stock,
			Sales: v.sales,
		})
	}

	inquiry.MissingStores = make([]string, 0)
	for _, store := range resolver.ActiveStores() {
		if v, ok := views[store.CleanName]; !ok || v.stock == 0 {
			inquiry.MissingStores = append(inquiry.MissingStores, store.CleanName)
		}
	}

	// Depletion looks at store shelves only. Warehouse stock does not
	// sell until dispatched.
	inquiry.DailyVelocity = float64(inquiry.Sales30) / 30.0
	inquiry.DaysToDeplete = depletedSentinel
	if inquiry.DailyVelocity > 0 {
		days := int(float64(inquiry.StoreStock) / inquiry.DailyVelocity)
		if days < depletedSentinel {
			inquiry.DaysToDeplete = days
		}
	}
	switch {
	case inquiry.Sales30 == 0:
		inquiry.Status = domain.ProductStatusIdle
	case inquiry.DaysToDeplete < 15:
		inquiry.Status = domain.ProductStatusCritical
	case inquiry.DaysToDeplete < 30:
		inquiry.Status = domain.ProductStatusWarning
	default:
		inquiry.Status = domain.ProductStatusHealthy
	}
	return inquiry, nil
}

func sumSalesFor(resolver *stores.Resolver, sales []domain.StoreSales, codeKey string) int {
	total := 0
	for _, s := range sales {
		if normalize.Code(s.Code) != codeKey {
			continue
		}
		if id := resolver.Resolve(s.StoreRaw); id.Warehouse {
			continue
		}
		total += s.Units
	}
	return total
}
