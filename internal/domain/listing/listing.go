package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for listing lookups and ownership checks.
var (
	ErrNotFound  = errors.New("listing not found")
	ErrForbidden = errors.New("listing belongs to another seller")
)

// ValidationError indicates a listing field failed boundary validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Status is the lifecycle state of a listing. Only active listings are
// visible in the catalog; deleted is a soft state, the row stays around.
type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusDeleted Status = "deleted"
)

// Listing is an item put up for sale by a marketplace user.
type Listing struct {
	ID          int64
	SellerID    string
	Name        string
	Description string
	Category    string
	Condition   string
	Tags        []string
	Images      []string

	Price         decimal.Decimal
	OriginalPrice decimal.Decimal

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists listings. Create assigns the ID and returns it on the
// passed listing.
type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetByID(ctx context.Context, id int64) (*Listing, error)
	ListActive(ctx context.Context) ([]Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Listing, error)
	Update(ctx context.Context, l *Listing) error
}
