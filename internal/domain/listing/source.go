package listing

import (
	"context"
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// Product converts the listing into its catalog representation. Rating and
// review counts are derived deterministically from the listing ID so the
// catalog stays stable across reads without a real review system behind it.
func (l Listing) Product() catalog.Product {
	seed := l.ID
	rating := 4.0 + float64(seed%10)/10
	rating = math.Round(rating*10) / 10

	seller := l.SellerID
	if len(seller) > 8 {
		seller = seller[:8]
	}
	if seller == "" {
		seller = "Anonymous"
	}

	return catalog.Product{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		Category:      l.Category,
		Condition:     l.Condition,
		Tags:          l.Tags,
		Price:         l.Price,
		OriginalPrice: l.OriginalPrice,
		Rating:        rating,
		Reviews:       int(seed%50) + 5,
		Images:        l.Images,
		InStock:       l.Status == StatusActive,
		Seller:        seller,
		Location:      "Local Seller",
	}
}

// CatalogSource assembles the queryable catalog: active seller listings
// first, then the curated base catalog. Listing IDs start above the base
// catalog's ID space, so the two never collide.
//
// Storage failures never surface to the caller. The source degrades to the
// embedded fixture catalog and logs the cause, keeping the storefront up
// while the backend is down.
type CatalogSource struct {
	listings Repository
	base     catalog.Repository
	fallback []catalog.Product
}

// NewCatalogSource creates a CatalogSource over the given stores. fallback
// is the embedded fixture catalog served when either store fails.
func NewCatalogSource(listings Repository, base catalog.Repository, fallback []catalog.Product) *CatalogSource {
	return &CatalogSource{listings: listings, base: base, fallback: fallback}
}

// Products returns the merged catalog snapshot.
func (s *CatalogSource) Products(ctx context.Context) []catalog.Product {
	active, err := s.listings.ListActive(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Listing store unavailable, serving fixture catalog", zap.Error(err))
		return s.fallback
	}

	base, err := s.base.List(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Catalog store unavailable, serving fixture catalog", zap.Error(err))
		return s.fallback
	}

	merged := make([]catalog.Product, 0, len(active)+len(base))
	for i := range active {
		merged = append(merged, active[i].Product())
	}
	return append(merged, base...)
}

// GetByID looks the product up in the listing ID space first, then the base
// catalog. Sold and deleted listings read as not found.
func (s *CatalogSource) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	l, err := s.listings.GetByID(ctx, id)
	switch {
	case err == nil:
		if l.Status != StatusActive {
			return nil, catalog.ErrNotFound
		}
		p := l.Product()
		return &p, nil
	case errors.Is(err, ErrNotFound):
		// Fall through to the base catalog.
	default:
		zctx.From(ctx).Warn("Listing store unavailable, serving fixture catalog", zap.Error(err))
		return s.fixtureByID(id)
	}

	p, err := s.base.GetByID(ctx, id)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, catalog.ErrNotFound):
		return nil, catalog.ErrNotFound
	default:
		zctx.From(ctx).Warn("Catalog store unavailable, serving fixture catalog", zap.Error(err))
		return s.fixtureByID(id)
	}
}

func (s *CatalogSource) fixtureByID(id int64) (*catalog.Product, error) {
	for i := range s.fallback {
		if s.fallback[i].ID == id {
			return &s.fallback[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}
