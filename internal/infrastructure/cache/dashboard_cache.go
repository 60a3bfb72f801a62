package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appfinance "github.com/feedlot/backend/internal/application/finance"
	"github.com/feedlot/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDashboardCache caches rendered dashboards in Redis so that
// repeated dashboard hits between generations skip the trend queries.
// Cache failures are logged and treated as misses; the dashboard is
// always recomputable from the database.
type RedisDashboardCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisDashboardCache creates a cache over a new Redis connection
func NewRedisDashboardCache(cfg *config.RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisDashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisDashboardCacheWithClient(client, ttl, logger), nil
}

// NewRedisDashboardCacheWithClient creates a cache over an existing client
func NewRedisDashboardCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDashboardCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDashboardCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: "analysis:dashboard:",
		logger:    logger,
	}
}

// Get returns the cached dashboard for the year, if present
func (c *RedisDashboardCache) Get(ctx context.Context, year int) (*appfinance.DashboardResponse, bool) {
	data, err := c.client.Get(ctx, c.key(year)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var dashboard appfinance.DashboardResponse
	if err := json.Unmarshal(data, &dashboard); err != nil {
		c.logger.Warn("dashboard cache entry is corrupt, dropping it", zap.Error(err))
		c.client.Del(ctx, c.key(year))
		return nil, false
	}
	return &dashboard, true
}

// Set stores the dashboard for the year
func (c *RedisDashboardCache) Set(ctx context.Context, year int, dashboard *appfinance.DashboardResponse) {
	data, err := json.Marshal(dashboard)
	if err != nil {
		c.logger.Warn("dashboard cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(year), data, c.ttl).Err(); err != nil {
		c.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached dashboard for the year
func (c *RedisDashboardCache) Invalidate(ctx context.Context, year int) {
	if err := c.client.Del(ctx, c.key(year)).Err(); err != nil {
		c.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}

func (c *RedisDashboardCache) key(year int) string {
	return fmt.Sprintf("%s%04d", c.keyPrefix, year)
}

var _ appfinance.DashboardCache = (*RedisDashboardCache)(nil)
