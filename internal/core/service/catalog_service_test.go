package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubSource struct {
	products []domain.Product
	err      error
	listed   int
	searched int
	gotten   int
}

func (s *stubSource) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.listed++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.gotten++
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubSource) SearchProducts(_ context.Context, q string) ([]domain.Product, error) {
	s.searched++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) ProductsByCategory(_ context.Context, _ string) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubSource) FeaturedProducts(_ context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type cacheEntry struct {
	products []domain.Product
	storedAt time.Time
}

type stubCache struct {
	entries map[string]cacheEntry
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]cacheEntry)}
}

func (c *stubCache) Get(_ context.Context, key string) ([]domain.Product, bool, time.Time) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false, time.Time{}
	}
	return e.products, true, e.storedAt
}

func (c *stubCache) Set(_ context.Context, key string, products []domain.Product) error {
	c.sets++
	c.entries[key] = cacheEntry{products: products, storedAt: time.Now()}
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

// stubEnqueuer records scheduled refreshes; RunAll executes them inline.
type stubEnqueuer struct {
	jobs []func(ctx context.Context) error
	keys []string
}

func (e *stubEnqueuer) Enqueue(key string, run func(ctx context.Context) error) {
	e.keys = append(e.keys, key)
	e.jobs = append(e.jobs, run)
}

func (e *stubEnqueuer) RunAll(ctx context.Context) {
	jobs := e.jobs
	e.jobs = nil
	for _, j := range jobs {
		_ = j(ctx)
	}
}

func twoProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "iPhone 13", Price: domain.Money{Amount: 999, Currency: "USD"}},
		{ID: "2", Name: "ThinkPad", Price: domain.Money{Amount: 1299, Currency: "USD"}},
	}
}

// ---------------------------------------------------------------------------
// Read-through behavior
// ---------------------------------------------------------------------------

func TestCatalogService_MissFetchesAndFills(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	cache := newStubCache()
	svc := NewCatalogService(source, cache, &stubEnqueuer{}, time.Minute, discardLogger)

	products, err := svc.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("want 2 products, got %d", len(products))
	}
	if source.listed != 1 {
		t.Fatalf("miss must fetch exactly once, got %d", source.listed)
	}
	if _, ok, _ := cache.Get(context.Background(), KeyAllProducts()); !ok {
		t.Fatal("fetch result must be cached")
	}
}

func TestCatalogService_FreshHitSkipsNetwork(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	cache := newStubCache()
	svc := NewCatalogService(source, cache, &stubEnqueuer{}, time.Minute, discardLogger)

	ctx := context.Background()
	if _, err := svc.Products(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := svc.Products(ctx); err != nil {
		t.Fatalf("second read: %v", err)
	}

	if source.listed != 1 {
		t.Fatalf("fresh hit must not refetch, fetches=%d", source.listed)
	}
}

func TestCatalogService_StaleServesAndRevalidates(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	cache := newStubCache()
	enq := &stubEnqueuer{}
	svc := NewCatalogService(source, cache, enq, time.Minute, discardLogger)

	ctx := context.Background()
	if _, err := svc.Products(ctx); err != nil {
		t.Fatalf("prime: %v", err)
	}

	// Age the entry past the staleness window.
	e := cache.entries[KeyAllProducts()]
	e.storedAt = time.Now().Add(-2 * time.Minute)
	cache.entries[KeyAllProducts()] = e

	products, err := svc.Products(ctx)
	if err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if len(products) != 2 {
		t.Fatal("stale value must be served immediately")
	}
	if source.listed != 1 {
		t.Fatal("stale read must not fetch synchronously")
	}
	if len(enq.jobs) != 1 || enq.keys[0] != KeyAllProducts() {
		t.Fatalf("stale read must schedule one revalidation, got %v", enq.keys)
	}

	enq.RunAll(ctx)
	if source.listed != 2 {
		t.Fatalf("revalidation must fetch, fetches=%d", source.listed)
	}
	if age := time.Since(cache.entries[KeyAllProducts()].storedAt); age > time.Minute {
		t.Fatal("revalidation must refresh the entry")
	}
}

func TestCatalogService_FetchErrorIsTagged(t *testing.T) {
	source := &stubSource{err: domain.ErrFetchFailed}
	svc := NewCatalogService(source, newStubCache(), &stubEnqueuer{}, time.Minute, discardLogger)

	_, err := svc.Products(context.Background())
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestCatalogService_ReloadForcesFetch(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	cache := newStubCache()
	svc := NewCatalogService(source, cache, &stubEnqueuer{}, time.Minute, discardLogger)

	ctx := context.Background()
	if _, err := svc.Products(ctx); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if err := svc.Reload(ctx, KeyAllProducts()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if source.listed != 2 {
		t.Fatalf("reload must bypass the fresh cache, fetches=%d", source.listed)
	}
}

func TestCatalogService_ReloadUnknownKey(t *testing.T) {
	svc := NewCatalogService(&stubSource{}, newStubCache(), &stubEnqueuer{}, time.Minute, discardLogger)
	if err := svc.Reload(context.Background(), "bogus:key"); err == nil {
		t.Fatal("unknown key must error")
	}
}

func TestCatalogService_ProductByID(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	svc := NewCatalogService(source, newStubCache(), &stubEnqueuer{}, time.Minute, discardLogger)

	ctx := context.Background()
	p, err := svc.Product(ctx, "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "ThinkPad" {
		t.Fatalf("wrong product: %+v", p)
	}

	// A second read comes from the per-product cache key.
	if _, err := svc.Product(ctx, "2"); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if source.gotten != 1 {
		t.Fatalf("cached product must not refetch, fetches=%d", source.gotten)
	}

	if _, err := svc.Product(ctx, "404"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogService_SearchKeysAreNormalized(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	svc := NewCatalogService(source, newStubCache(), &stubEnqueuer{}, time.Minute, discardLogger)

	ctx := context.Background()
	if _, err := svc.Search(ctx, "iPhone"); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := svc.Search(ctx, "  iphone "); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if source.searched != 1 {
		t.Fatalf("equivalent queries must share a cache key, fetches=%d", source.searched)
	}
}

func TestCatalogService_SupersededResponseIsNotCached(t *testing.T) {
	source := &stubSource{products: twoProducts()}
	cache := newStubCache()
	svc := NewCatalogService(source, cache, &stubEnqueuer{}, time.Minute, discardLogger)

	ctx := context.Background()
	key := KeyAllProducts()

	// Simulate an older in-flight request completing after a newer one was
	// issued: by the time the fetch returns, the latest id differs.
	registered := make(chan struct{})
	release := make(chan struct{})
	slowFetch := func(fetchCtx context.Context) ([]domain.Product, error) {
		close(registered)
		<-release
		return []domain.Product{{ID: "old"}}, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.fetchAndStore(ctx, key, slowFetch, "sync")
	}()
	<-registered

	// A newer request for the same key lands and completes first.
	if _, err := svc.fetchAndStore(ctx, key, source.ListProducts, "sync"); err != nil {
		t.Fatalf("newer fetch: %v", err)
	}
	close(release)
	<-done

	cached, ok, _ := cache.Get(ctx, key)
	if !ok {
		t.Fatal("newer result must be cached")
	}
	if len(cached) != 2 || cached[0].ID != "1" {
		t.Fatalf("superseded response overwrote the newer one: %+v", cached)
	}
}
