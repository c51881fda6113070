package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jagimahalo/restock-backend/internal/config"
	"github.com/jagimahalo/restock-backend/internal/domain"
)

const (
	replenishmentKeyPrefix  = "report:replenishment"
	redistributionKeyPrefix = "report:redistribution"
	reportScanBatchSize     = 100
)

// CachedReplenishment is the cached payload of a replenishment run:
// the rows plus the unassigned-store diagnostics that belong with them.
type CachedReplenishment struct {
	Rows       []domain.Recommendation `json:"rows"`
	Unassigned []string                `json:"unassigned"`
}

// CachedRedistribution is the cached payload of a redistribution run.
type CachedRedistribution struct {
	Suggestions []domain.TransferSuggestion `json:"suggestions"`
	Unassigned  []string                    `json:"unassigned"`
}

// ReportCache caches computed reports keyed by their parameters. Facts
// change only on reload, so a short TTL keeps repeat dashboard hits off
// the database.
type ReportCache interface {
	GetReplenishment(ctx context.Context, p domain.ReplenishmentParams) (*CachedReplenishment, bool, error)
	SetReplenishment(ctx context.Context, p domain.ReplenishmentParams, payload *CachedReplenishment) error
	GetRedistribution(ctx context.Context, p domain.RedistributionParams) (*CachedRedistribution, bool, error)
	SetRedistribution(ctx context.Context, p domain.RedistributionParams, payload *CachedRedistribution) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a redis-backed cache, or a noop cache when
// caching is disabled.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetReplenishment(ctx context.Context, p domain.ReplenishmentParams) (*CachedReplenishment, bool, error) {
	var payload CachedReplenishment
	hit, err := c.get(ctx, replenishmentKey(p), &payload)
	if err != nil || !hit {
		return nil, false, err
	}
	return &payload, true, nil
}

func (c *redisReportCache) SetReplenishment(ctx context.Context, p domain.ReplenishmentParams, payload *CachedReplenishment) error {
	return c.set(ctx, replenishmentKey(p), payload)
}

func (c *redisReportCache) GetRedistribution(ctx context.Context, p domain.RedistributionParams) (*CachedRedistribution, bool, error) {
	var payload CachedRedistribution
	hit, err := c.get(ctx, redistributionKey(p), &payload)
	if err != nil || !hit {
		return nil, false, err
	}
	return &payload, true, nil
}

func (c *redisReportCache) SetRedistribution(ctx context.Context, p domain.RedistributionParams, payload *CachedRedistribution) error {
	return c.set(ctx, redistributionKey(p), payload)
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	if err := dropKeysByPrefix(ctx, c.client, replenishmentKeyPrefix); err != nil {
		return err
	}
	return dropKeysByPrefix(ctx, c.client, redistributionKeyPrefix)
}

func (c *redisReportCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode report cache: %w", err)
	}
	return true, nil
}

func (c *redisReportCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopReportCache) GetReplenishment(ctx context.Context, p domain.ReplenishmentParams) (*CachedReplenishment, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetReplenishment(ctx context.Context, p domain.ReplenishmentParams, payload *CachedReplenishment) error {
	return nil
}

func (n *noopReportCache) GetRedistribution(ctx context.Context, p domain.RedistributionParams) (*CachedRedistribution, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetRedistribution(ctx context.Context, p domain.RedistributionParams, payload *CachedRedistribution) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func replenishmentKey(p domain.ReplenishmentParams) string {
	parts := []string{
		fmt.Sprintf("window_days=%d", p.WindowDays),
		fmt.Sprintf("expansion_window_days=%d", p.ExpansionWindowDays),
		fmt.Sprintf("expansion_sales_threshold=%d", p.ExpansionSalesThreshold),
		fmt.Sprintf("exclude_no_movement=%t", p.ExcludeNoMovement),
		fmt.Sprintf("include_fixed=%t", p.IncludeFixed),
		fmt.Sprintf("only_with_sales=%t", p.OnlyWithSales),
	}
	if len(p.NewProducts) > 0 {
		products := make([]string, 0, len(p.NewProducts))
		for _, np := range p.NewProducts {
			products = append(products, strings.Join([]string{
				strings.ToUpper(strings.TrimSpace(np.Code)),
				strings.ToUpper(strings.TrimSpace(np.Brand)),
				strings.ToUpper(strings.TrimSpace(np.Color)),
			}, "|"))
		}
		sort.Strings(products)
		parts = append(parts, "new_products="+strings.Join(products, ","))
	}
	return fmt.Sprintf("%s:%s", replenishmentKeyPrefix, hashParts(parts))
}

func redistributionKey(p domain.RedistributionParams) string {
	parts := []string{
		fmt.Sprintf("window_days=%d", p.WindowDays),
		fmt.Sprintf("demand_threshold=%d", p.DemandThreshold),
	}
	if p.OriginStore != "" {
		parts = append(parts, "origin_store="+strings.ToLower(strings.TrimSpace(p.OriginStore)))
	}
	return fmt.Sprintf("%s:%s", redistributionKeyPrefix, hashParts(parts))
}

func hashParts(parts []string) string {
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
