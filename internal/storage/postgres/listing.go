package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecofinds/marketplace-api/internal/domain/listing"
)

const (
	listingColumns = `id, seller_id, name, description, category, condition,
		tags, price, original_price, images, status, created_at, updated_at`

	createListingSQL = `INSERT INTO listings
		(seller_id, name, description, category, condition, tags, price,
		 original_price, images, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	getListingByIDSQL = `SELECT ` + listingColumns + `
		FROM listings WHERE id = $1`

	listActiveListingsSQL = `SELECT ` + listingColumns + `
		FROM listings WHERE status = 'active' ORDER BY id DESC`

	listBySellerSQL = `SELECT ` + listingColumns + `
		FROM listings WHERE seller_id = $1 ORDER BY id DESC`

	updateListingSQL = `UPDATE listings SET
			name = $2, description = $3, category = $4, condition = $5,
			tags = $6, price = $7, original_price = $8, images = $9,
			status = $10, updated_at = $11
		WHERE id = $1`
)

var _ listing.Repository = (*ListingRepository)(nil)

// ListingRepository implements listing.Repository backed by PostgreSQL.
type ListingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository returns a ListingRepository that uses the given pool.
func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

// Create inserts the listing and sets its database-assigned ID.
func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	err := r.pool.QueryRow(ctx, createListingSQL,
		l.SellerID, l.Name, l.Description, l.Category, l.Condition, l.Tags,
		l.Price, l.OriginalPrice, l.Images, l.Status, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return errors.Wrap(err, "creating listing")
	}
	return nil
}

// GetByID returns a single listing regardless of status.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*listing.Listing, error) {
	rows, err := r.pool.Query(ctx, getListingByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting listing %d", id)
	}

	l, err := pgx.CollectExactlyOneRow(rows, scanListing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listing.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting listing %d", id)
	}
	return &l, nil
}

// ListActive returns all active listings, newest first.
func (r *ListingRepository) ListActive(ctx context.Context) ([]listing.Listing, error) {
	rows, err := r.pool.Query(ctx, listActiveListingsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing active listings")
	}
	return pgx.CollectRows(rows, scanListing)
}

// ListBySeller returns all listings owned by the seller, newest first,
// including sold and deleted rows.
func (r *ListingRepository) ListBySeller(ctx context.Context, sellerID string) ([]listing.Listing, error) {
	rows, err := r.pool.Query(ctx, listBySellerSQL, sellerID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing listings for seller %s", sellerID)
	}
	return pgx.CollectRows(rows, scanListing)
}

// Update replaces the mutable columns of the listing row.
func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	tag, err := r.pool.Exec(ctx, updateListingSQL,
		l.ID, l.Name, l.Description, l.Category, l.Condition, l.Tags,
		l.Price, l.OriginalPrice, l.Images, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "updating listing %d", l.ID)
	}
	if tag.RowsAffected() == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func scanListing(row pgx.CollectableRow) (listing.Listing, error) {
	var l listing.Listing
	err := row.Scan(
		&l.ID, &l.SellerID, &l.Name, &l.Description, &l.Category, &l.Condition,
		&l.Tags, &l.Price, &l.OriginalPrice, &l.Images, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}
