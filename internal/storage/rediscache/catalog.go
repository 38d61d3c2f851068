package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

const (
	productListKey   = "catalog:products"
	productKeyPrefix = "catalog:product:"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// CatalogCache is a read-through cache in front of a catalog.Repository.
// Cache failures are never fatal: a broken Redis degrades to the wrapped
// repository with a warning, the same posture the catalog source takes
// toward a broken database.
type CatalogCache struct {
	next   catalog.Repository
	client *redis.Client
	ttl    time.Duration
}

var _ catalog.Repository = (*CatalogCache)(nil)

// NewCatalogCache wraps next with a Redis cache holding entries for ttl.
func NewCatalogCache(next catalog.Repository, client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{next: next, client: client, ttl: ttl}
}

// List returns the cached product list, falling through to the wrapped
// repository on a miss and repopulating the cache.
func (c *CatalogCache) List(ctx context.Context) ([]catalog.Product, error) {
	data, err := c.client.Get(ctx, productListKey).Bytes()
	switch {
	case err == nil:
		var products []catalog.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		// Undecodable entry, treat as a miss and overwrite below.
	case !errors.Is(err, redis.Nil):
		zctx.From(ctx).Warn("Redis unavailable, reading through", zap.Error(err))
	}

	products, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, productListKey, products)
	return products, nil
}

// GetByID returns the cached product, falling through on a miss.
func (c *CatalogCache) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	key := productKeyPrefix + fmt.Sprint(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p catalog.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
	case !errors.Is(err, redis.Nil):
		zctx.From(ctx).Warn("Redis unavailable, reading through", zap.Error(err))
	}

	p, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, p)
	return p, nil
}

// Invalidate drops all cached catalog entries. The seed tooling calls it
// after rewriting the products table.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, productKeyPrefix+"*", 0).Iterator()
	keys := []string{productListKey}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scanning catalog keys")
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "deleting catalog keys")
	}
	return nil
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zctx.From(ctx).Warn("Redis set failed", zap.String("key", key), zap.Error(err))
	}
}
