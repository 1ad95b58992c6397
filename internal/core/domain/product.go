package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("resource not found")
var ErrProductNotFound = errors.New("product not found")
var ErrInvalidPrice = errors.New("invalid price")
var ErrFetchFailed = errors.New("catalog fetch failed")

// Money is a currency-normalized amount. Upstream sources mix plain numbers
// and display strings ("$1,299.00"); everything is parsed into this form at
// the ingestion boundary so arithmetic never touches raw representations.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Product is the canonical catalog entry.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         Money    `json:"price"`
	OriginalPrice *Money   `json:"original_price,omitempty"`
	Category      string   `json:"category,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Rating        float64  `json:"rating,omitempty"` // 0–5, 0 when unrated
	Stock         *int     `json:"stock,omitempty"`
	Image         string   `json:"image,omitempty"`
	Badge         string   `json:"badge,omitempty"`
	Description   string   `json:"description,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
}

// OnSale reports whether the product carries a list price above its
// current price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.Amount > p.Price.Amount
}

// ParseAmount converts a display price string into a numeric amount.
// Currency symbols, whitespace and thousands separators are tolerated;
// both "1,299.00" and "1.299,00" styles resolve to 1299. A string with no
// digits is an error, never NaN.
func ParseAmount(s string) (float64, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("%w: %q has no numeric content", ErrInvalidPrice, s)
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The later separator is the decimal mark, the other groups thousands.
		if lastDot > lastComma {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastComma >= 0:
		// A lone comma followed by exactly two digits is a decimal mark,
		// anything else is a thousands separator.
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-lastComma-1 == 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		// Dots used as thousands separators ("1.299.000").
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return amount, nil
}
