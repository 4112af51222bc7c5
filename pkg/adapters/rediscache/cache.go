// Package rediscache decorates a catalog source with a Redis read-through
// cache, so repeated pipeline runs and chat searches do not refetch a slow
// backend. Cache trouble degrades to the underlying source, never to an
// error.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

const defaultKey = "cesta:catalog"

// Catalog is a caching ports.CatalogSource.
type Catalog struct {
	source ports.CatalogSource
	client *backend.Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithTTL sets the cache entry expiration. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) { c.ttl = ttl }
}

// WithKey overrides the cache key.
func WithKey(key string) Option {
	return func(c *Catalog) { c.key = key }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a caching catalog over a fresh Redis client.
func New(source ports.CatalogSource, address, password string, db int, opts ...Option) *Catalog {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(source, client, opts...)
}

// NewFromClient creates a caching catalog from an existing client.
func NewFromClient(source ports.CatalogSource, client *backend.Client, opts ...Option) *Catalog {
	c := &Catalog{
		source: source,
		client: client,
		key:    defaultKey,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products implements ports.CatalogSource. Catalog order survives the
// round trip through the cache.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var products []domain.Product
		if err := json.Unmarshal(data, &products); err == nil {
			c.logger.Debug("catalog cache hit", "products", len(products))
			return products, nil
		}
		// A corrupt entry is dropped and refetched.
		c.logger.Warn("corrupt catalog cache entry, refetching")
		if err := c.client.Del(ctx, c.key).Err(); err != nil {
			c.logger.Warn("failed to drop corrupt cache entry", "err", err)
		}
	case err != backend.Nil:
		c.logger.Warn("catalog cache unavailable, using source", "err", err)
	}

	products, err := c.source.Products(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, products)
	return products, nil
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("invalidating catalog cache: %w", err)
	}
	return nil
}

func (c *Catalog) store(ctx context.Context, products []domain.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		c.logger.Warn("failed to marshal catalog for cache", "err", err)
		return
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache catalog", "err", err)
	}
}
