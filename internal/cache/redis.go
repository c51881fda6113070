package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jagimahalo/restock-backend/internal/config"
)

const (
	defaultReportTTL = time.Minute
	redisDialTimeout = 5 * time.Second
)

// dialRedis connects and verifies the server is reachable, returning
// the client and the TTL reports should be cached with. A full
// REDIS_URL wins over the host/port fields.
func dialRedis(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(hostOr(cfg.RedisHost), portOr(cfg.RedisPort)),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return client, ttl, nil
}

func hostOr(host string) string {
	if host == "" {
		return "127.0.0.1"
	}
	return host
}

func portOr(port string) string {
	if port == "" {
		return "6379"
	}
	return port
}

// dropKeysByPrefix removes every key under prefix with SCAN batches, so
// invalidation never blocks the server the way KEYS would.
func dropKeysByPrefix(ctx context.Context, client *redis.Client, prefix string) error {
	var cursor uint64
	pattern := prefix + "*"
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, reportScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
