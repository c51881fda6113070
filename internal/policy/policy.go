// Package policy classifies (product, store) pairs into minimum-stock
// buckets and resolves the configured minimum for each bucket.
package policy

import (
	"strings"

	"github.com/jagimahalo/restock-backend/internal/normalize"
)

// Policy buckets, in classification order.
const (
	BucketFixedSpecial = "fixed_special"
	BucketFixedNormal  = "fixed_normal"
	BucketMultiBrand   = "multi_brand"
	BucketJGL          = "jgl"
	BucketJGM          = "jgm"
	BucketDefault      = "default"
)

// Product-line marker substrings, matched against upper-cased code and brand.
const (
	markerJGL = "JGL"
	markerJGM = "JGM"
)

// fallbackMinimums is the safety net when the stock_minimums table has
// no row for a bucket. These values are load-bearing: they are what the
// business ran on before minimums became configurable.
var fallbackMinimums = map[string]int{
	BucketFixedSpecial: 8,
	BucketFixedNormal:  5,
	BucketMultiBrand:   2,
	BucketJGL:          3,
	BucketJGM:          3,
	BucketDefault:      4,
}

// Engine resolves policy buckets and minimum quantities. All lookup
// sets are immutable snapshots taken at construction; an Engine is
// never mutated during a computation.
type Engine struct {
	minimums    map[string]int
	fixedRefs   map[string]struct{}
	multiBrands map[string]struct{}
}

// New builds an Engine from the configured bucket minimums, the fixed
// reference codes and the multi-brand names. Set entries are matched
// upper-cased; empty entries are dropped.
func New(minimums map[string]int, fixedRefs, multiBrands []string) *Engine {
	e := &Engine{
		minimums:    make(map[string]int, len(minimums)),
		fixedRefs:   make(map[string]struct{}, len(fixedRefs)),
		multiBrands: make(map[string]struct{}, len(multiBrands)),
	}
	for bucket, qty := range minimums {
		e.minimums[strings.ToLower(strings.TrimSpace(bucket))] = qty
	}
	for _, code := range fixedRefs {
		if c := normalize.Code(code); c != "" {
			e.fixedRefs[c] = struct{}{}
		}
	}
	for _, brand := range multiBrands {
		if b := normalize.Code(brand); b != "" {
			e.multiBrands[b] = struct{}{}
		}
	}
	return e
}

// IsFixedReference reports whether the code belongs to the fixed
// reference set (always stocked in fixed stores, regardless of sales).
func (e *Engine) IsFixedReference(code string) bool {
	_, ok := e.fixedRefs[normalize.Code(code)]
	return ok
}

// Classify resolves the policy bucket for a product at a store. The
// rule order is a business tie-break, not an implementation detail:
// fixed references win over multi-brand, which wins over the line
// markers, which win over the default.
func (e *Engine) Classify(code, brand string, storeFixed bool) string {
	c := normalize.Code(code)
	b := normalize.Code(brand)

	if _, ok := e.fixedRefs[c]; ok {
		if storeFixed {
			return BucketFixedSpecial
		}
		return BucketFixedNormal
	}
	if _, ok := e.multiBrands[b]; ok {
		return BucketMultiBrand
	}
	if strings.Contains(c, markerJGL) || strings.Contains(b, markerJGL) {
		return BucketJGL
	}
	if strings.Contains(c, markerJGM) || strings.Contains(b, markerJGM) {
		return BucketJGM
	}
	return BucketDefault
}

// MinStock returns the configured minimum for a bucket, falling back to
// the hardcoded defaults when configuration is incomplete.
func (e *Engine) MinStock(bucket string) int {
	if qty, ok := e.minimums[bucket]; ok {
		return qty
	}
	return fallbackMinimums[bucket]
}

// MinimumFor is Classify followed by MinStock.
func (e *Engine) MinimumFor(code, brand string, storeFixed bool) int {
	return e.MinStock(e.Classify(code, brand, storeFixed))
}
