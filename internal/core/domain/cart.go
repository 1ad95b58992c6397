package domain

// CartLine is one row in the cart: a product reference, the quantity, and
// the unit price captured at the moment the product was first added. Later
// catalog price changes never alter the value of an existing line.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice Money   `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// CartSummary holds the derived aggregates of a cart. It is never stored:
// Summarize recomputes it from the line list after every mutation so the
// aggregates cannot drift from the lines.
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

// Summarize recomputes the cart aggregates from scratch.
func Summarize(lines []CartLine) CartSummary {
	var s CartSummary
	for _, l := range lines {
		s.ItemCount += l.Quantity
		s.Total += l.UnitPrice.Amount * float64(l.Quantity)
	}
	return s
}
