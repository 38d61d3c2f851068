package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/marketplace-api/internal/domain/cart"
	"github.com/ecofinds/marketplace-api/internal/domain/catalog"
)

const (
	getCartSQL = `SELECT items FROM carts WHERE owner_id = $1`

	saveCartSQL = `INSERT INTO carts (owner_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository persists cart snapshots as JSONB documents, one row per
// owner. The whole snapshot is replaced on every save; the reducer already
// guarantees single-writer ordering per owner.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// cartItemDoc is the stored JSON shape of one cart line. The product is
// snapshotted in full so the cart renders even when the listing behind it
// has since been sold or deleted.
type cartItemDoc struct {
	Product  productDoc `json:"product"`
	Quantity int        `json:"quantity"`
}

type productDoc struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Tags          []string        `json:"tags,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Images        []string        `json:"images,omitempty"`
	InStock       bool            `json:"inStock"`
	Seller        string          `json:"seller,omitempty"`
	Location      string          `json:"location,omitempty"`
}

// Get returns the owner's cart snapshot, or the empty state when none exists.
func (r *CartRepository) Get(ctx context.Context, ownerID string) (cart.State, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, getCartSQL, ownerID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.State{}, nil
		}
		return cart.State{}, errors.Wrapf(err, "getting cart for %s", ownerID)
	}

	var docs []cartItemDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return cart.State{}, errors.Wrapf(err, "decoding cart for %s", ownerID)
	}
	if len(docs) == 0 {
		return cart.State{}, nil
	}

	items := make([]cart.Item, len(docs))
	total := 0
	for i, doc := range docs {
		items[i] = cart.Item{Product: doc.Product.domain(), Quantity: doc.Quantity}
		total += doc.Quantity
	}
	return cart.State{Items: items, TotalItems: total}, nil
}

// Save stores the owner's cart snapshot, replacing any previous one.
func (r *CartRepository) Save(ctx context.Context, ownerID string, state cart.State) error {
	docs := make([]cartItemDoc, len(state.Items))
	for i, item := range state.Items {
		docs[i] = cartItemDoc{Product: toProductDoc(item.Product), Quantity: item.Quantity}
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return errors.Wrapf(err, "encoding cart for %s", ownerID)
	}

	if _, err := r.pool.Exec(ctx, saveCartSQL, ownerID, raw, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "saving cart for %s", ownerID)
	}
	return nil
}

func toProductDoc(p catalog.Product) productDoc {
	return productDoc{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Condition:     p.Condition,
		Tags:          p.Tags,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
		Images:        p.Images,
		InStock:       p.InStock,
		Seller:        p.Seller,
		Location:      p.Location,
	}
}

func (d productDoc) domain() catalog.Product {
	return catalog.Product{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		Condition:     d.Condition,
		Tags:          d.Tags,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Rating:        d.Rating,
		Reviews:       d.Reviews,
		Images:        d.Images,
		InStock:       d.InStock,
		Seller:        d.Seller,
		Location:      d.Location,
	}
}
