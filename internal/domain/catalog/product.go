package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a second-hand item available on the marketplace.
// Higher IDs are assigned to more recently added products, so ID ordering
// doubles as a recency ordering.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Condition   string
	Tags        []string

	Price decimal.Decimal
	// OriginalPrice is the retail price before second-hand markdown.
	// Zero means the seller did not provide one.
	OriginalPrice decimal.Decimal

	Rating  float64
	Reviews int

	// Images holds URLs in display order; the first entry is the main image.
	Images []string

	InStock  bool
	Seller   string
	Location string
}

// Categories is the closed set of marketplace category labels.
var Categories = []string{
	"Vehicles",
	"Electronics & Appliances",
	"Mobiles",
	"Furniture",
	"Fashion",
	"Pets",
	"Books, Sports & Hobbies",
	"Services",
}

// ValidCategory reports whether label is one of the known category labels.
func ValidCategory(label string) bool {
	for _, c := range Categories {
		if c == label {
			return true
		}
	}
	return false
}

// Repository defines read operations for the curated base catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
