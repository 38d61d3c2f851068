package listing

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockRepo struct {
	nextID   int64
	byID     map[int64]Listing
	order    []int64
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 10000, byID: make(map[int64]Listing)}
}

func (r *mockRepo) Create(_ context.Context, l *Listing) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	l.ID = r.nextID
	r.byID[l.ID] = *l
	r.order = append(r.order, l.ID)
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, id int64) (*Listing, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	l, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *mockRepo) ListActive(_ context.Context) ([]Listing, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]Listing, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if l := r.byID[r.order[i]]; l.Status == StatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *mockRepo) ListBySeller(_ context.Context, sellerID string) ([]Listing, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]Listing, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if l := r.byID[r.order[i]]; l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *mockRepo) Update(_ context.Context, l *Listing) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.byID[l.ID]; !ok {
		return ErrNotFound
	}
	r.byID[l.ID] = *l
	return nil
}

// --- Helpers ---

func validDraft() Draft {
	return Draft{
		Name:     "Vintage Camera",
		Category: "Electronics & Appliances",
		Price:    decimal.RequireFromString("75.00"),
	}
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

// --- Tests ---

func TestService_CreateAppliesDefaults(t *testing.T) {
	svc := newTestService(newMockRepo())

	d := validDraft()
	d.Tags = []string{" Vintage ", "FILM", ""}

	l, err := svc.Create(context.Background(), "seller-1", d)
	require.NoError(t, err)

	assert.Positive(t, l.ID)
	assert.Equal(t, "seller-1", l.SellerID)
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, "Good", l.Condition)
	assert.Equal(t, []string{"vintage", "film"}, l.Tags)
	assert.Equal(t, []string{placeholderImage}, l.Images)
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"blank name", func(d *Draft) { d.Name = "  " }, "name"},
		{"missing category", func(d *Draft) { d.Category = "" }, "category"},
		{"unknown category", func(d *Draft) { d.Category = "Spaceships" }, "category"},
		{"unknown condition", func(d *Draft) { d.Condition = "Mint" }, "condition"},
		{"zero price", func(d *Draft) { d.Price = decimal.Zero }, "price"},
		{"negative price", func(d *Draft) { d.Price = decimal.RequireFromString("-1") }, "price"},
		{"negative original price", func(d *Draft) {
			d.OriginalPrice = decimal.RequireFromString("-5")
		}, "originalPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			_, err := svc.Create(context.Background(), "seller-1", d)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestService_UpdateRequiresOwnership(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, "seller-1", validDraft())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "seller-2", l.ID, validDraft())
	assert.ErrorIs(t, err, ErrForbidden)

	d := validDraft()
	d.Name = "Vintage Camera Mk II"
	updated, err := svc.Update(ctx, "seller-1", l.ID, d)
	require.NoError(t, err)
	assert.Equal(t, "Vintage Camera Mk II", updated.Name)
}

func TestService_DeleteIsSoft(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, "seller-1", validDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "seller-1", l.ID))

	// The row survives with status deleted but reads as not found.
	stored := repo.byID[l.ID]
	assert.Equal(t, StatusDeleted, stored.Status)

	_, err = svc.Get(ctx, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	mine, err := svc.ListBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestService_MarkSoldKeepsSellerVisibility(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	l, err := svc.Create(ctx, "seller-1", validDraft())
	require.NoError(t, err)

	sold, err := svc.MarkSold(ctx, "seller-1", l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, sold.Status)

	mine, err := svc.ListBySeller(ctx, "seller-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, StatusSold, mine[0].Status)
}

func TestService_RepoErrorIsWrapped(t *testing.T) {
	repo := newMockRepo()
	repo.failWith = errors.New("db down")
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "seller-1", validDraft())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create listing")
}
