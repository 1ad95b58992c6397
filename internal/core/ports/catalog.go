package ports

import (
	"context"
	"time"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

// CatalogSource fetches product data from the external storefront API.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	FeaturedProducts(ctx context.Context) ([]domain.Product, error)
}

// CatalogCache stores fetched product lists keyed by query identity.
// The cache itself has no notion of staleness; it reports when an entry was
// stored and leaves the freshness decision to the caller.
type CatalogCache interface {
	// Get returns the cached products for key, whether the key was present,
	// and the time the entry was stored.
	Get(ctx context.Context, key string) ([]domain.Product, bool, time.Time)
	Set(ctx context.Context, key string, products []domain.Product) error
	Delete(ctx context.Context, key string) error
}

// CatalogPage is one page of the filtered catalog view.
type CatalogPage struct {
	Items      []domain.Product
	Total      int // products matching the filter before pagination
	Page       int // 1-based
	PageSize   int
	TotalPages int
}

// CategoryFacet is one entry of the category selector derived from the
// catalog: a case-insensitive key, the original-case label of the first
// occurrence, and the number of matching products.
type CategoryFacet struct {
	Key   string
	Label string
	Count int
}

// CatalogService is the read-through catalog query layer consumed by views.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	ByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	// Reload bypasses the cache for the given query key and refetches
	// synchronously. It is the manual retry path after a failed fetch.
	Reload(ctx context.Context, key string) error
}
