package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecofinds/marketplace-api/internal/domain/listing"
)

// --- Mocks ---

type mockListingRepo struct {
	mu       sync.Mutex
	nextID   int64
	created  []listing.Listing
	failWith error
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{nextID: 10000}
}

func (r *mockListingRepo) Create(_ context.Context, l *listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	l.ID = r.nextID
	r.created = append(r.created, *l)
	return nil
}

func (r *mockListingRepo) GetByID(_ context.Context, id int64) (*listing.Listing, error) {
	return nil, listing.ErrNotFound
}

func (r *mockListingRepo) ListActive(_ context.Context) ([]listing.Listing, error) {
	return nil, nil
}

func (r *mockListingRepo) ListBySeller(_ context.Context, sellerID string) ([]listing.Listing, error) {
	return nil, nil
}

func (r *mockListingRepo) Update(_ context.Context, l *listing.Listing) error {
	return nil
}

// --- Helpers ---

func writeFeedFile(t *testing.T, dir, name string, lines []string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)

	gz := pgzip.NewWriter(f)
	for _, line := range lines {
		_, err := gz.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func offerLine(seller, name string) string {
	return fmt.Sprintf(`{"sellerId":%q,"name":%q,"category":"Fashion","price":"19.99"}`, seller, name)
}

// --- Tests ---

func TestImportFeeds_DeduplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "partner-a.jsonl.gz", []string{
		offerLine("seller-1", "Vintage Camera"),
		offerLine("seller-1", "Leather Satchel"),
		offerLine("seller-1", "Vintage Camera"),
		`not json at all`,
		`{"sellerId":"seller-1","name":"","category":"Fashion","price":"5"}`,
	})
	writeFeedFile(t, dir, "partner-b.jsonl.gz", []string{
		offerLine("seller-1", "Vintage Camera"),
		offerLine("seller-2", "Vintage Camera"),
	})

	repo := newMockListingRepo()
	files, err := filepath.Glob(filepath.Join(dir, "*.jsonl.gz"))
	require.NoError(t, err)

	err = importFeeds(context.Background(), listing.NewService(repo), files)
	require.NoError(t, err)

	// Same seller+name counts as one offer; the invalid (empty name) and
	// malformed lines are skipped without failing the import.
	require.Len(t, repo.created, 3)

	names := make(map[string]int)
	for _, l := range repo.created {
		names[l.SellerID+"/"+l.Name]++
	}
	assert.Equal(t, 1, names["seller-1/Vintage Camera"])
	assert.Equal(t, 1, names["seller-1/Leather Satchel"])
	assert.Equal(t, 1, names["seller-2/Vintage Camera"])
}

func TestImportFeeds_InsertErrorStopsReaders(t *testing.T) {
	dir := t.TempDir()

	// More offers than the records channel buffers, so the readers can only
	// finish if the writer's failure stops them.
	lines := make([]string, 0, 3000)
	for i := 0; i < 3000; i++ {
		lines = append(lines, offerLine("seller-1", fmt.Sprintf("Offer %d", i)))
	}
	writeFeedFile(t, dir, "partner-a.jsonl.gz", lines)

	repo := newMockListingRepo()
	repo.failWith = errors.New("connection reset")
	files, err := filepath.Glob(filepath.Join(dir, "*.jsonl.gz"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- importFeeds(context.Background(), listing.NewService(repo), files)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write listings")
		assert.Contains(t, err.Error(), "connection reset")
	case <-time.After(10 * time.Second):
		t.Fatal("import did not stop after the insert failure")
	}
}
