package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

const (
	listProductsSQL = `SELECT id, name, description, category, condition, tags,
		price, original_price, rating, reviews, images, in_stock, seller, location
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, description, category, condition, tags,
		price, original_price, rating, reviews, images, in_stock, seller, location
		FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products
		(id, name, description, category, condition, tags, price, original_price,
		 rating, reviews, images, in_stock, seller, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			condition = EXCLUDED.condition,
			tags = EXCLUDED.tags,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			rating = EXCLUDED.rating,
			reviews = EXCLUDED.reviews,
			images = EXCLUDED.images,
			in_stock = EXCLUDED.in_stock,
			seller = EXCLUDED.seller,
			location = EXCLUDED.location`
)

var _ catalog.Repository = (*ProductRepository)(nil)

// ProductRepository implements catalog.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns the curated base catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting product %d", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting product %d", id)
	}
	return &p, nil
}

// Upsert inserts or replaces a catalog product. Used by the seed tooling.
func (r *ProductRepository) Upsert(ctx context.Context, p catalog.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Description, p.Category, p.Condition, p.Tags,
		p.Price, p.OriginalPrice, p.Rating, p.Reviews, p.Images,
		p.InStock, p.Seller, p.Location,
	)
	if err != nil {
		return errors.Wrapf(err, "upserting product %d", p.ID)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Condition, &p.Tags,
		&p.Price, &p.OriginalPrice, &p.Rating, &p.Reviews, &p.Images,
		&p.InStock, &p.Seller, &p.Location,
	)
	return p, err
}
