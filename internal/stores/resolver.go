// Package stores resolves raw point-of-sale store names to canonical
// store identities using the store_config table.
package stores

import (
	"sort"

	"github.com/jagimahalo/restock-backend/internal/domain"
	"github.com/jagimahalo/restock-backend/internal/normalize"
)

// Identity is the canonical view of a store referenced by a raw feed.
type Identity struct {
	Canonical string
	Region    string
	Fixed     bool
	Warehouse bool
}

// Resolver maps raw store names to identities. Key-equality on the
// normalized name is the sole matching mechanism. A Resolver is built
// once per computation and is not safe for concurrent mutation.
type Resolver struct {
	byRawKey   map[string]domain.StoreConfig
	byCleanKey map[string]domain.StoreConfig
	unassigned map[string]struct{}
}

// NewResolver indexes the store configuration by normalized raw and
// canonical names. Later rows win on key collisions, matching the
// upsert semantics of the config table.
func NewResolver(configs []domain.StoreConfig) *Resolver {
	r := &Resolver{
		byRawKey:   make(map[string]domain.StoreConfig, len(configs)),
		byCleanKey: make(map[string]domain.StoreConfig, len(configs)),
		unassigned: make(map[string]struct{}),
	}
	for _, cfg := range configs {
		if k := normalize.Key(cfg.RawName); k != "" {
			r.byRawKey[k] = cfg
		}
		if k := normalize.Key(cfg.CleanName); k != "" {
			r.byCleanKey[k] = cfg
		}
	}
	return r
}

// Resolve returns the canonical identity for a raw store name. Names
// without a mapping keep their raw spelling, land in the UNASSIGNED
// region and are recorded for operator review.
func (r *Resolver) Resolve(rawName string) Identity {
	key := normalize.Key(rawName)
	cfg, ok := r.byRawKey[key]
	if !ok {
		// Feeds sometimes already carry the canonical name.
		cfg, ok = r.byCleanKey[key]
	}
	if !ok {
		if key != "" {
			r.unassigned[rawName] = struct{}{}
		}
		return Identity{Canonical: rawName, Region: domain.RegionUnassigned}
	}

	region := cfg.Region
	if region == "" {
		region = domain.RegionUnassigned
	}
	return Identity{
		Canonical: cfg.CleanName,
		Region:    region,
		Fixed:     cfg.Fixed,
		Warehouse: cfg.StoreType == domain.StoreTypeWarehouse,
	}
}

// IsWarehouse reports whether a name resolves to a warehouse-type
// store. Unmapped names are never treated as warehouses.
func (r *Resolver) IsWarehouse(name string) bool {
	return r.Resolve(name).Warehouse
}

// ActiveStores returns the configured non-warehouse stores, one per
// canonical identity, sorted by canonical name.
func (r *Resolver) ActiveStores() []domain.StoreConfig {
	seen := make(map[string]struct{}, len(r.byCleanKey))
	out := make([]domain.StoreConfig, 0, len(r.byCleanKey))
	for key, cfg := range r.byCleanKey {
		if cfg.StoreType == domain.StoreTypeWarehouse {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CleanName < out[j].CleanName })
	return out
}

// Unassigned returns the raw names that resolved to no region during
// this computation, sorted, for the diagnostics report.
func (r *Resolver) Unassigned() []string {
	out := make([]string, 0, len(r.unassigned))
	for name := range r.unassigned {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
