package listing

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

// placeholderImage is used when a seller submits no photos.
const placeholderImage = "/images/placeholder.jpg"

var conditions = map[string]struct{}{
	"Excellent": {},
	"Very Good": {},
	"Good":      {},
	"Fair":      {},
}

// Draft is seller-provided listing input, before validation and defaulting.
type Draft struct {
	Name          string
	Description   string
	Category      string
	Condition     string
	Tags          []string
	Images        []string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
}

// Service owns listing lifecycle rules: boundary validation, defaulting,
// ownership checks, and soft deletion.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a listing Service backed by the given Repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// normalize validates the draft and applies defaults, returning the cleaned
// copy. All errors are *ValidationError.
func normalize(d Draft) (Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Draft{}, &ValidationError{Field: "name", Reason: "required"}
	}
	d.Description = strings.TrimSpace(d.Description)

	if d.Category == "" {
		return Draft{}, &ValidationError{Field: "category", Reason: "required"}
	}
	if !catalog.ValidCategory(d.Category) {
		return Draft{}, &ValidationError{Field: "category", Reason: "unknown category"}
	}

	if d.Condition == "" {
		d.Condition = "Good"
	}
	if _, ok := conditions[d.Condition]; !ok {
		return Draft{}, &ValidationError{Field: "condition", Reason: "unknown condition"}
	}

	if !d.Price.IsPositive() {
		return Draft{}, &ValidationError{Field: "price", Reason: "must be greater than 0"}
	}
	if d.OriginalPrice.IsNegative() {
		return Draft{}, &ValidationError{Field: "originalPrice", Reason: "must not be negative"}
	}

	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	d.Tags = tags

	if len(d.Images) == 0 {
		d.Images = []string{placeholderImage}
	}
	return d, nil
}

// Create validates the draft and persists a new active listing for the seller.
func (s *Service) Create(ctx context.Context, sellerID string, d Draft) (*Listing, error) {
	d, err := normalize(d)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	l := &Listing{
		SellerID:      sellerID,
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		Condition:     d.Condition,
		Tags:          d.Tags,
		Images:        d.Images,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, errors.Wrap(err, "create listing")
	}
	return l, nil
}

// Get returns the listing by ID. Soft-deleted listings read as not found.
func (s *Service) Get(ctx context.Context, id int64) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == StatusDeleted {
		return nil, ErrNotFound
	}
	return l, nil
}

// ListBySeller returns all non-deleted listings owned by the seller, newest
// first.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	all, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "list seller listings")
	}
	out := make([]Listing, 0, len(all))
	for _, l := range all {
		if l.Status != StatusDeleted {
			out = append(out, l)
		}
	}
	return out, nil
}

// Update replaces the mutable fields of the seller's listing with the
// validated draft. Sellers can only touch their own listings.
func (s *Service) Update(ctx context.Context, sellerID string, id int64, d Draft) (*Listing, error) {
	l, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}

	d, err = normalize(d)
	if err != nil {
		return nil, err
	}

	l.Name = d.Name
	l.Description = d.Description
	l.Category = d.Category
	l.Condition = d.Condition
	l.Tags = d.Tags
	l.Images = d.Images
	l.Price = d.Price
	l.OriginalPrice = d.OriginalPrice
	l.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, errors.Wrap(err, "update listing")
	}
	return l, nil
}

// MarkSold flips the seller's listing to sold, removing it from the catalog
// while keeping it on the seller's dashboard.
func (s *Service) MarkSold(ctx context.Context, sellerID string, id int64) (*Listing, error) {
	return s.setStatus(ctx, sellerID, id, StatusSold)
}

// Delete soft-deletes the seller's listing. The row is kept with status
// "deleted" and disappears from both the catalog and the seller's list.
func (s *Service) Delete(ctx context.Context, sellerID string, id int64) error {
	_, err := s.setStatus(ctx, sellerID, id, StatusDeleted)
	return err
}

func (s *Service) setStatus(ctx context.Context, sellerID string, id int64, status Status) (*Listing, error) {
	l, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	l.Status = status
	l.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, errors.Wrap(err, "update listing status")
	}
	return l, nil
}

func (s *Service) owned(ctx context.Context, sellerID string, id int64) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == StatusDeleted {
		return nil, ErrNotFound
	}
	if l.SellerID != sellerID {
		return nil, ErrForbidden
	}
	return l, nil
}
