package api

import (
	"context"
	"net/url"

	"github.com/ecommerceapp/storefront/internal/core/domain"
)

// Thin wrappers for the remaining backend resources. These are collaborator
// endpoints: the client consumes them as given and does not add behavior
// beyond wire mapping.

// Category is a backend-managed category record, distinct from the facets
// derived client-side from the catalog.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type wireCartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// SaveCart pushes the local cart to the authenticated user's server-side
// cart. The local copy stays authoritative; this is a best-effort mirror.
func (c *Client) SaveCart(ctx context.Context, lines []domain.CartLine) error {
	wire := make([]wireCartLine, 0, len(lines))
	for _, l := range lines {
		wire = append(wire, wireCartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.Amount,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	return c.put(ctx, "/carts", wire, nil)
}

// GetCart fetches the server-side cart for the authenticated user.
func (c *Client) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	var wire []wireCartLine
	if err := c.get(ctx, "/carts", &wire); err != nil {
		return nil, err
	}
	lines := make([]domain.CartLine, 0, len(wire))
	for _, w := range wire {
		lines = append(lines, domain.CartLine{
			ProductID: w.ProductID,
			Name:      w.Name,
			UnitPrice: domain.Money{Amount: w.UnitPrice, Currency: c.currency},
			Quantity:  w.Quantity,
			Image:     w.Image,
		})
	}
	return lines, nil
}

// orderLine is a cart line as the orders endpoint expects it.
type orderLine struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type orderRequest struct {
	Items []orderLine `json:"items"`
	Total float64     `json:"total"`
}

// OrderConfirmation is the backend's answer to a checkout submission.
type OrderConfirmation struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder submits the cart as an order. This is the checkout stub: no
// payment is processed here.
func (c *Client) CreateOrder(ctx context.Context, lines []domain.CartLine) (*OrderConfirmation, error) {
	req := orderRequest{Items: make([]orderLine, 0, len(lines))}
	for _, l := range lines {
		req.Items = append(req.Items, orderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Amount,
		})
	}
	req.Total = domain.Summarize(lines).Total

	var conf OrderConfirmation
	if err := c.post(ctx, "/orders", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// PaymentResult reports the state of a payment submission against the stub
// payments endpoint.
type PaymentResult struct {
	Status string `json:"status"`
}

func (c *Client) CreatePayment(ctx context.Context, orderID string, amount float64) (*PaymentResult, error) {
	body := map[string]any{"order_id": orderID, "amount": amount}
	var res PaymentResult
	if err := c.post(ctx, "/payments", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Review is a product review record.
type Review struct {
	Author  string  `json:"author"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func (c *Client) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, "/products/"+url.PathEscape(productID)+"/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) AddReview(ctx context.Context, productID string, review Review) error {
	return c.post(ctx, "/products/"+url.PathEscape(productID)+"/reviews", review, nil)
}

// ShippingOption is one delivery choice offered at checkout.
type ShippingOption struct {
	Carrier string  `json:"carrier"`
	Price   float64 `json:"price"`
	Days    int     `json:"days"`
}

func (c *Client) ShippingOptions(ctx context.Context, zipCode string) ([]ShippingOption, error) {
	var options []ShippingOption
	if err := c.get(ctx, "/shipping?zip="+url.QueryEscape(zipCode), &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var wire wireUser
	if err := c.get(ctx, "/users/"+url.PathEscape(id), &wire); err != nil {
		return nil, err
	}
	user := toUser(wire)
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, user domain.User) error {
	return c.put(ctx, "/users/"+url.PathEscape(id), user, nil)
}

// Wishlist returns the product ids on the authenticated user's wishlist.
func (c *Client) Wishlist(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.get(ctx, "/wishlist", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	return c.post(ctx, "/wishlist/"+url.PathEscape(productID), nil, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.delete(ctx, "/wishlist/"+url.PathEscape(productID))
}
