package engine

import (
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
)

// candidate is a position annotated with its window sales and policy
// minimum, on one side of a potential transfer.
type candidate struct {
	pos     position
	sales   int
	minimum int
}

// matchKey pairs origins and destinations. Only same-region, same
// product transfers are eligible; there is no cross-region shipping.
type matchKey struct {
	region string
	code   string
	brand  string
}

// Redistribution pairs overstocked, non-selling positions at non-fixed
// stores with understocked, selling positions in the same region. An
// empty result is the expected "no opportunity" outcome, not an error.
func (e *Engine) Redistribution(ds Dataset, p domain.RedistributionParams) ([]domain.TransferSuggestion, []string, error) {
	if err := ValidateRedistributionParams(p); err != nil {
		return nil, nil, err
	}
	r, err := newRun(ds)
	if err != nil {
		return nil, nil, err
	}

	var origins, destinations []candidate
	for _, pos := range r.positions {
		sales := r.sales[posKey{store: pos.storeKey, code: pos.codeKey}]
		minimum := r.policy.MinimumFor(pos.code, pos.brand, pos.identity.Fixed)
		c := candidate{pos: pos, sales: sales, minimum: minimum}

		// Fixed stores hold their baseline regardless of sales, so they
		// never give stock away.
		if pos.quantity > minimum && sales == 0 && !pos.identity.Fixed {
			origins = append(origins, c)
		}
		if pos.quantity < minimum && sales >= p.DemandThreshold {
			destinations = append(destinations, c)
		}
	}

	if p.OriginStore != "" {
		originKey := normalize.Key(r.resolver.Resolve(p.OriginStore).Canonical)
		filtered := origins[:0]
		for _, c := range origins {
			if c.pos.storeKey == originKey {
				filtered = append(filtered, c)
			}
		}
		origins = filtered
		if len(origins) == 0 {
			// Requested store has no surplus: a valid empty result.
			return []domain.TransferSuggestion{}, r.resolver.Unassigned(), nil
		}
		region := origins[0].pos.identity.Region
		destFiltered := destinations[:0]
		for _, c := range destinations {
			if c.pos.identity.Region == region {
				destFiltered = append(destFiltered, c)
			}
		}
		destinations = destFiltered
	}

	destIndex := make(map[matchKey][]candidate, len(destinations))
	for _, c := range destinations {
		key := matchKey{
			region: c.pos.identity.Region,
			code:   c.pos.codeKey,
			brand:  normalize.Code(c.pos.brand),
		}
		destIndex[key] = append(destIndex[key], c)
	}

	suggestions := make([]domain.TransferSuggestion, 0)
	for _, origin := range origins {
		key := matchKey{
			region: origin.pos.identity.Region,
			code:   origin.pos.codeKey,
			brand:  normalize.Code(origin.pos.brand),
		}
		excess := origin.pos.quantity - origin.minimum
		if excess < 0 {
			excess = 0
		}
		for _, dest := range destIndex[key] {
			if dest.pos.storeKey == origin.pos.storeKey {
				continue
			}
			shortage := dest.minimum - dest.pos.quantity
			if shortage < 0 {
				shortage = 0
			}
			if excess == 0 || shortage == 0 {
				continue
			}
			qty := excess / e.transferDivisor
			if qty > shortage {
				qty = shortage
			}
			if qty < 1 {
				qty = 1
			}
			suggestions = append(suggestions, domain.TransferSuggestion{
				Region:             origin.pos.identity.Region,
				Code:               origin.pos.code,
				Brand:              orUnknown(origin.pos.brand, domain.UnknownBrand),
				OriginStore:        origin.pos.identity.Canonical,
				OriginStock:        origin.pos.quantity,
				OriginSales:        origin.sales,
				DestinationStore:   dest.pos.identity.Canonical,
				DestinationStock:   dest.pos.quantity,
				DestinationSales:   dest.sales,
				DestinationMinimum: dest.minimum,
				Quantity:           qty,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.OriginStore < b.OriginStore
	})
	return suggestions, r.resolver.Unassigned(), nil
}
