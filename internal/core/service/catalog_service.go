package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
	"github.com/ecommerceapp/storefront/internal/metrics"
)

// DefaultStaleAfter is the staleness window applied when none is configured.
const DefaultStaleAfter = 5 * time.Minute

// Query key builders. Keys identify a catalog query, not a URL; the cache
// and the refresh queue are sharded by them.
func KeyAllProducts() string      { return "products:all" }
func KeyFeatured() string         { return "products:featured" }
func KeyProduct(id string) string { return "products:id:" + id }
func KeySearch(q string) string   { return "products:search:" + strings.ToLower(strings.TrimSpace(q)) }
func KeyCategory(c string) string { return "products:category:" + strings.ToLower(strings.TrimSpace(c)) }

// RefreshEnqueuer schedules a background revalidation job for a query key.
// Jobs for the same key must run in order.
type RefreshEnqueuer interface {
	Enqueue(key string, run func(ctx context.Context) error)
}

// CatalogService is the read-through catalog query layer. Within the
// staleness window a cached entry is served without a network call; after it
// elapses the stale value is still served immediately while a refresh runs
// in the background. A fetch result is only applied while it is the latest
// request for its key, so a slow response can never overwrite a newer one.
type CatalogService struct {
	source     ports.CatalogSource
	cache      ports.CatalogCache
	refresh    RefreshEnqueuer
	staleAfter time.Duration
	now        func() time.Time

	mu     sync.Mutex
	latest map[string]uuid.UUID

	log zerolog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService wires the catalog layer. refresh may be nil, in which
// case stale entries are served without revalidation until a miss occurs.
func NewCatalogService(source ports.CatalogSource, cache ports.CatalogCache, refresh RefreshEnqueuer, staleAfter time.Duration, log zerolog.Logger) *CatalogService {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &CatalogService{
		source:     source,
		cache:      cache,
		refresh:    refresh,
		staleAfter: staleAfter,
		now:        time.Now,
		latest:     make(map[string]uuid.UUID),
		log:        log,
	}
}

func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.get(ctx, KeyAllProducts(), s.source.ListProducts)
}

func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.get(ctx, KeyFeatured(), s.source.FeaturedProducts)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return s.get(ctx, KeySearch(query), func(ctx context.Context) ([]domain.Product, error) {
		return s.source.SearchProducts(ctx, query)
	})
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.get(ctx, KeyCategory(category), func(ctx context.Context) ([]domain.Product, error) {
		return s.source.ProductsByCategory(ctx, category)
	})
}

// Product resolves a single product through its own cache key.
func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	products, err := s.get(ctx, KeyProduct(id), s.singleFetch(id))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	p := products[0]
	return &p, nil
}

// Reload bypasses the cache and refetches the key synchronously. It is the
// manual retry path after a failed fetch; there is no automatic retry.
func (s *CatalogService) Reload(ctx context.Context, key string) error {
	fetch := s.fetchFor(key)
	if fetch == nil {
		return fmt.Errorf("catalog reload: unknown query key %q", key)
	}
	_, err := s.fetchAndStore(ctx, key, fetch, "sync")
	return err
}

// get implements the read-through path for one query key.
func (s *CatalogService) get(ctx context.Context, key string, fetch func(context.Context) ([]domain.Product, error)) ([]domain.Product, error) {
	cached, ok, storedAt := s.cache.Get(ctx, key)
	if ok {
		if s.now().Sub(storedAt) <= s.staleAfter {
			metrics.CacheLookupsTotal.WithLabelValues("fresh").Inc()
			return cached, nil
		}
		metrics.CacheLookupsTotal.WithLabelValues("stale").Inc()
		s.scheduleRefresh(key, fetch)
		return cached, nil
	}

	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	return s.fetchAndStore(ctx, key, fetch, "sync")
}

// scheduleRefresh enqueues a background revalidation for a stale key.
func (s *CatalogService) scheduleRefresh(key string, fetch func(context.Context) ([]domain.Product, error)) {
	if s.refresh == nil {
		return
	}
	s.refresh.Enqueue(key, func(ctx context.Context) error {
		_, err := s.fetchAndStore(ctx, key, fetch, "background")
		return err
	})
}

// fetchAndStore performs one fetch under a fresh request identity. The
// result is cached only while this request is still the latest one issued
// for the key; superseded responses are dropped regardless of arrival order.
func (s *CatalogService) fetchAndStore(ctx context.Context, key string, fetch func(context.Context) ([]domain.Product, error), kind string) ([]domain.Product, error) {
	id := uuid.New()
	s.mu.Lock()
	s.latest[key] = id
	s.mu.Unlock()

	start := s.now()
	products, err := fetch(ctx)
	metrics.FetchDuration.Observe(s.now().Sub(start).Seconds())

	s.mu.Lock()
	superseded := s.latest[key] != id
	if !superseded {
		delete(s.latest, key)
	}
	s.mu.Unlock()

	if err != nil {
		metrics.FetchesTotal.WithLabelValues(kind, "error").Inc()
		s.log.Warn().Err(err).Str("key", key).Str("kind", kind).Msg("catalog fetch failed")
		return nil, fmt.Errorf("catalog %s: %w", key, err)
	}
	metrics.FetchesTotal.WithLabelValues(kind, "ok").Inc()

	if superseded {
		metrics.SupersededResponsesTotal.Inc()
		s.log.Debug().Str("key", key).Msg("dropping superseded catalog response")
		return products, nil
	}

	if err := s.cache.Set(ctx, key, products); err != nil {
		// A cache failure degrades to fetch-per-read, it does not fail the caller.
		s.log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return products, nil
}

// singleFetch adapts the single-product endpoint to the list-shaped cache.
func (s *CatalogService) singleFetch(id string) func(context.Context) ([]domain.Product, error) {
	return func(ctx context.Context) ([]domain.Product, error) {
		p, err := s.source.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		return []domain.Product{*p}, nil
	}
}

// fetchFor resolves a query key back to its source call, for Reload.
func (s *CatalogService) fetchFor(key string) func(context.Context) ([]domain.Product, error) {
	switch key {
	case KeyAllProducts():
		return s.source.ListProducts
	case KeyFeatured():
		return s.source.FeaturedProducts
	}
	if id, ok := strings.CutPrefix(key, "products:id:"); ok {
		return s.singleFetch(id)
	}
	if q, ok := strings.CutPrefix(key, "products:search:"); ok {
		return func(ctx context.Context) ([]domain.Product, error) {
			return s.source.SearchProducts(ctx, q)
		}
	}
	if c, ok := strings.CutPrefix(key, "products:category:"); ok {
		return func(ctx context.Context) ([]domain.Product, error) {
			return s.source.ProductsByCategory(ctx, c)
		}
	}
	return nil
}
