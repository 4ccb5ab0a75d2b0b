package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound           = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Product is a read-only catalog record. Values are never mutated after a
// fetch; views replace whole slices instead.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}
