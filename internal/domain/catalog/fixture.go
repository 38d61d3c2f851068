package catalog

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// fixtureProduct mirrors the JSON shape of the curated catalog file.
type fixtureProduct struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Tags          []string        `json:"tags"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Images        []string        `json:"images"`
	InStock       bool            `json:"inStock"`
	Seller        string          `json:"seller"`
	Location      string          `json:"location"`
}

// ParseFixture decodes the embedded curated catalog. It is used both by the
// seed tooling and as the in-process fallback when storage is unreachable.
func ParseFixture(data []byte) ([]Product, error) {
	var raw []fixtureProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse fixture catalog")
	}

	out := make([]Product, len(raw))
	for i, f := range raw {
		out[i] = Product{
			ID:            f.ID,
			Name:          f.Name,
			Description:   f.Description,
			Category:      f.Category,
			Condition:     f.Condition,
			Tags:          f.Tags,
			Price:         f.Price,
			OriginalPrice: f.OriginalPrice,
			Rating:        f.Rating,
			Reviews:       f.Reviews,
			Images:        f.Images,
			InStock:       f.InStock,
			Seller:        f.Seller,
			Location:      f.Location,
		}
	}
	return out, nil
}
