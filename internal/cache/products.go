package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/catalog/internal/logger"
)

const (
	allProductsKey  = "products:all"
	productTTL      = 5 * time.Minute
	productKeySpace = "product:%d"
)

// ProductCache is a read-through cache for the hot product endpoints: the
// unfiltered listing and single-product lookups. A nil client disables
// caching entirely, so the rest of the app never has to care whether redis
// is around.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

// GetList returns the cached unfiltered product listing, if any.
func (c *ProductCache) GetList(ctx context.Context) ([]byte, bool) {
	return c.get(ctx, allProductsKey)
}

// SetList stores the unfiltered product listing.
func (c *ProductCache) SetList(ctx context.Context, payload []byte) {
	c.set(ctx, allProductsKey, payload)
}

// GetProduct returns the cached detail payload for one product, if any.
func (c *ProductCache) GetProduct(ctx context.Context, id uint) ([]byte, bool) {
	return c.get(ctx, fmt.Sprintf(productKeySpace, id))
}

// SetProduct stores the detail payload for one product.
func (c *ProductCache) SetProduct(ctx context.Context, id uint, payload []byte) {
	c.set(ctx, fmt.Sprintf(productKeySpace, id), payload)
}

// Invalidate drops the listing and, when id > 0, the product detail entry.
// Called after every product write.
func (c *ProductCache) Invalidate(ctx context.Context, id uint) {
	if c.client == nil {
		return
	}

	keys := []string{allProductsKey}
	if id > 0 {
		keys = append(keys, fmt.Sprintf(productKeySpace, id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("failed to invalidate product cache", "error", err)
	}
}

func (c *ProductCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *ProductCache) set(ctx context.Context, key string, payload []byte) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, payload, productTTL).Err(); err != nil {
		logger.Warn("failed to populate product cache", "key", key, "error", err)
	}
}
