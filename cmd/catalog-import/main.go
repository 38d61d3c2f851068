// Command catalog-import bulk-loads seller listings from gzip-compressed
// JSONL feed files. Feeds from different partners overlap heavily, so offers
// are deduplicated across all files with a bloom filter before insertion.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ecofinds/marketplace-api/internal/domain/listing"
	"github.com/ecofinds/marketplace-api/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// feedRecord is one offer line in a feed file.
type feedRecord struct {
	SellerID      string          `json:"sellerId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Tags          []string        `json:"tags"`
	Images        []string        `json:"images"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
}

// key identifies an offer across feeds. The same seller re-listing the same
// item through two partners counts as one offer.
func (r feedRecord) key() string {
	return r.SellerID + "\x00" + r.Name
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	listings := listing.NewService(postgres.NewListingRepository(pool))

	slog.Info("importing feeds", slog.Int("files", len(files)))

	return importFeeds(ctx, listings, files)
}

// importFeeds runs one reader goroutine per feed file and a single writer
// goroutine that owns the bloom filter and the insert path, so dedup needs no
// locking. A writer failure cancels the readers so neither side stays blocked
// on the records channel.
func importFeeds(ctx context.Context, listings *listing.Service, files []string) error {
	records := make(chan feedRecord, 1024)

	readCtx, stopReaders := context.WithCancel(ctx)
	defer stopReaders()

	g, readCtx := errgroup.WithContext(readCtx)
	for _, f := range files {
		g.Go(readFeed(readCtx, f, records))
	}

	done := make(chan error, 1)
	go func() {
		err := writeListings(ctx, listings, records)
		if err != nil {
			stopReaders()
		}
		done <- err
	}()

	readErr := g.Wait()
	close(records)
	writeErr := <-done

	if writeErr != nil {
		return errors.Wrap(writeErr, "write listings")
	}
	if readErr != nil {
		return errors.Wrap(readErr, "read feeds")
	}
	return nil
}

// readFeed streams one gzip JSONL file into the records channel.
func readFeed(ctx context.Context, path string, records chan<- feedRecord) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)

		for scanner.Scan() {
			var rec feedRecord
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				slog.Warn("skipping malformed feed line",
					slog.String("file", filepath.Base(path)),
					slog.String("error", err.Error()),
				)
				continue
			}

			select {
			case records <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("feed progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("records", count),
				)
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("feed complete",
			slog.String("file", filepath.Base(path)),
			slog.Uint64("records", count),
		)
		return nil
	}
}

// writeListings drains the records channel, dropping duplicate offers and
// records that fail listing validation.
func writeListings(ctx context.Context, listings *listing.Service, records <-chan feedRecord) error {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	var inserted, duplicates, invalid uint64
	for rec := range records {
		if seen.TestString(rec.key()) {
			duplicates++
			continue
		}
		seen.AddString(rec.key())

		_, err := listings.Create(ctx, rec.SellerID, listing.Draft{
			Name:          rec.Name,
			Description:   rec.Description,
			Category:      rec.Category,
			Condition:     rec.Condition,
			Tags:          rec.Tags,
			Images:        rec.Images,
			Price:         rec.Price,
			OriginalPrice: rec.OriginalPrice,
		})
		switch {
		case err == nil:
			inserted++
		case isValidationError(err):
			invalid++
			slog.Warn("skipping invalid offer",
				slog.String("seller", rec.SellerID),
				slog.String("name", rec.Name),
				slog.String("error", err.Error()),
			)
		default:
			return errors.Wrapf(err, "insert offer %q", rec.Name)
		}
	}

	slog.Info("import summary",
		slog.Uint64("inserted", inserted),
		slog.Uint64("duplicates", duplicates),
		slog.Uint64("invalid", invalid),
	)
	return nil
}

func isValidationError(err error) bool {
	var verr *listing.ValidationError
	return errors.As(err, &verr)
}
