// Package catalog carrega produtos com preço atual e histórico, com cache LRU
// com expiração para as páginas de detalhe. Preços entram por outro processo
// (db seed), então o TTL é o que limita o tempo de um detalhe desatualizado.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/metrics"
)

const (
	DefaultCacheSize = 512
	DefaultCacheTTL  = 5 * time.Minute
)

type Store interface {
	GetProduct(ctx context.Context, id int64) (db.Product, error)
	ListProductPrices(ctx context.Context, productID int64) ([]db.PriceWithMarket, error)
}

type ProductDetail struct {
	Product db.Product
	Prices  []db.PriceWithMarket
	Current Money
	Diagram PriceDiagram
}

type Catalog struct {
	store Store
	cache *expirable.LRU[int64, ProductDetail]
}

func New(store Store, size int, ttl time.Duration) *Catalog {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Catalog{
		store: store,
		cache: expirable.NewLRU[int64, ProductDetail](size, nil, ttl),
	}
}

// Product retorna o detalhe do produto. Erros do store (inclusive
// sql.ErrNoRows) são repassados sem cache.
func (c *Catalog) Product(ctx context.Context, id int64) (ProductDetail, error) {
	if detail, ok := c.cache.Get(id); ok {
		metrics.ProductCacheLookups.WithLabelValues("hit").Inc()
		return detail, nil
	}
	metrics.ProductCacheLookups.WithLabelValues("miss").Inc()

	product, err := c.store.GetProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}
	prices, err := c.store.ListProductPrices(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("list prices: %w", err)
	}

	detail := ProductDetail{
		Product: product,
		Prices:  prices,
		Diagram: NewPriceDiagram(prices),
	}
	if n := len(prices); n > 0 {
		latest := prices[n-1]
		detail.Current = Money{Cents: latest.AmountCents, Currency: latest.Currency, Valid: true}
	}

	c.cache.Add(id, detail)
	return detail, nil
}

func (c *Catalog) Len() int {
	return c.cache.Len()
}
