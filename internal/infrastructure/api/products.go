package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
)

var _ ports.CatalogSource = (*Client)(nil)

// wireProduct is a product as the backend serializes it. Prices arrive as a
// bare number or as a display string ("$1,299.00") depending on the
// endpoint; both are normalized into domain.Money during decoding.
type wireProduct struct {
	ID            json.Number     `json:"id"`
	Name          string          `json:"name"`
	Price         json.RawMessage `json:"price"`
	OriginalPrice json.RawMessage `json:"originalPrice"`
	Currency      string          `json:"currency"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Rating        float64         `json:"rating"`
	Stock         *int            `json:"stock"`
	Image         string          `json:"image"`
	Badge         string          `json:"badge"`
	Description   string          `json:"description"`
	Featured      bool            `json:"featured"`
}

// productSchema holds the fields checked after normalization.
type productSchema struct {
	ID     string  `validate:"required"`
	Name   string  `validate:"required"`
	Amount float64 `validate:"gte=0"`
	Rating float64 `validate:"gte=0,lte=5"`
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.get(ctx, "/products", &wire); err != nil {
		return nil, err
	}
	return c.decodeProducts(wire), nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var wire wireProduct
	if err := c.get(ctx, "/product/"+url.PathEscape(id), &wire); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	p, err := c.toProduct(wire)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	return &p, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.get(ctx, "/products/search?q="+url.QueryEscape(query), &wire); err != nil {
		return nil, err
	}
	return c.decodeProducts(wire), nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.get(ctx, "/products?category="+url.QueryEscape(category), &wire); err != nil {
		return nil, err
	}
	return c.decodeProducts(wire), nil
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	var wire []wireProduct
	if err := c.get(ctx, "/products/featured", &wire); err != nil {
		return nil, err
	}
	return c.decodeProducts(wire), nil
}

// CreateProduct, UpdateProduct and DeleteProduct cover the admin side of the
// products resource.
func (c *Client) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	var wire wireProduct
	if err := c.post(ctx, "/products", p, &wire); err != nil {
		return nil, err
	}
	created, err := c.toProduct(wire)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	return c.put(ctx, "/products/"+url.PathEscape(id), p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, "/product/"+url.PathEscape(id))
}

// decodeProducts converts and validates a wire list. Entries that fail
// normalization are skipped with a warning rather than poisoning the whole
// catalog; totals downstream must never be computed against garbage.
func (c *Client) decodeProducts(wire []wireProduct) []domain.Product {
	products := make([]domain.Product, 0, len(wire))
	for _, w := range wire {
		p, err := c.toProduct(w)
		if err != nil {
			c.log.Warn().Err(err).Str("product_id", w.ID.String()).Msg("skipping invalid product")
			continue
		}
		products = append(products, p)
	}
	return products
}

// toProduct normalizes one wire product into the canonical model.
func (c *Client) toProduct(w wireProduct) (domain.Product, error) {
	amount, err := decodeAmount(w.Price)
	if err != nil {
		return domain.Product{}, err
	}
	if amount == nil {
		return domain.Product{}, fmt.Errorf("%w: missing price", domain.ErrInvalidPrice)
	}

	currency := w.Currency
	if currency == "" {
		currency = c.currency
	}

	p := domain.Product{
		ID:          w.ID.String(),
		Name:        w.Name,
		Price:       domain.Money{Amount: *amount, Currency: currency},
		Category:    w.Category,
		Brand:       w.Brand,
		Rating:      w.Rating,
		Stock:       w.Stock,
		Image:       w.Image,
		Badge:       w.Badge,
		Description: w.Description,
		Featured:    w.Featured,
	}

	original, err := decodeAmount(w.OriginalPrice)
	if err != nil {
		return domain.Product{}, err
	}
	if original != nil {
		p.OriginalPrice = &domain.Money{Amount: *original, Currency: currency}
	}

	if err := c.check.Check(productSchema{
		ID:     p.ID,
		Name:   p.Name,
		Amount: p.Price.Amount,
		Rating: p.Rating,
	}); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// decodeAmount reads a price that may be a JSON number, a numeric string, or
// a display string with currency symbols. Absent and null yield nil.
func decodeAmount(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: unsupported representation %s", domain.ErrInvalidPrice, raw)
	}
	amount, err := domain.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
