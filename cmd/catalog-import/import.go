package main

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

const (
	defaultBatchSize = 500
	defaultCapacity  = 1_000_000
	defaultFPR       = 0.001
	maxLineSize      = 1 << 20
)

type importConfig struct {
	BatchSize int
	Capacity  uint
	FPR       float64
	DryRun    bool
}

// store is the subset of postgres.CatalogRepository the import writes to.
type store interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	UpsertProducts(ctx context.Context, products []catalog.Product) error
}

type discardStore struct{}

func (discardStore) ListProducts(context.Context) ([]catalog.Product, error) { return nil, nil }
func (discardStore) UpsertProducts(context.Context, []catalog.Product) error { return nil }

type result struct {
	Imported int
	Rejected int
	// Duplicates maps each normalized code seen more than once to its
	// number of occurrences.
	Duplicates map[string]int
}

type importer struct {
	lg    *zap.Logger
	store store
	cfg   importConfig
}

// normalizeCode is the form lookup codes are compared in.
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Run imports files in three streaming passes. Pass 1 builds one bloom
// filter per file and notes codes its own filter had already seen. Pass 2
// counts exact occurrences, but only of codes some filter flagged. Pass 3
// upserts every product whose code is not a confirmed duplicate.
func (im *importer) Run(ctx context.Context, files []string) (*result, error) {
	filters, self, err := im.buildFilters(ctx, files)
	if err != nil {
		return nil, errors.Wrap(err, "build filters")
	}
	dups, err := im.confirmDuplicates(ctx, files, filters, self)
	if err != nil {
		return nil, errors.Wrap(err, "confirm duplicates")
	}
	im.lg.Info("Duplicate scan complete", zap.Int("duplicate_codes", len(dups)))

	res, err := im.write(ctx, files, dups)
	if err != nil {
		return nil, errors.Wrap(err, "write products")
	}
	res.Duplicates = dups
	return res, nil
}

func (im *importer) newFilter() *bloom.BloomFilter {
	capacity, fpr := im.cfg.Capacity, im.cfg.FPR
	if capacity == 0 {
		capacity = defaultCapacity
	}
	if fpr <= 0 || fpr >= 1 {
		fpr = defaultFPR
	}
	return bloom.NewWithEstimates(capacity, fpr)
}

// buildFilters is pass 1.
func (im *importer) buildFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, []map[string]struct{}, error) {
	filters := make([]*bloom.BloomFilter, len(files))
	self := make([]map[string]struct{}, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			filter := im.newFilter()
			flagged := make(map[string]struct{})
			var count int
			err := streamProducts(ctx, path, func(_ int, p catalog.Product) error {
				code := normalizeCode(p.Code)
				if code == "" {
					return nil
				}
				count++
				if filter.TestOrAddString(code) {
					flagged[code] = struct{}{}
				}
				return nil
			})
			if err != nil {
				return err
			}
			im.lg.Info("Pass 1 complete",
				zap.String("file", path),
				zap.Int("codes", count),
				zap.Int("flagged", len(flagged)),
			)
			filters[i] = filter
			self[i] = flagged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return filters, self, nil
}

// confirmDuplicates is pass 2. A code is a candidate when its own file
// flagged it in pass 1 or another file's filter reports it. Only candidates
// are counted exactly, so bloom false positives drop out here.
func (im *importer) confirmDuplicates(
	ctx context.Context,
	files []string,
	filters []*bloom.BloomFilter,
	self []map[string]struct{},
) (map[string]int, error) {
	var (
		mu     sync.Mutex
		counts = make(map[string]int)
	)

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			local := make(map[string]int)
			err := streamProducts(ctx, path, func(_ int, p catalog.Product) error {
				code := normalizeCode(p.Code)
				if code == "" {
					return nil
				}
				if _, ok := self[i][code]; ok {
					local[code]++
					return nil
				}
				for j, f := range filters {
					if j != i && f.TestString(code) {
						local[code]++
						break
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			mu.Lock()
			for code, n := range local {
				counts[code] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for code, n := range counts {
		if n < 2 {
			delete(counts, code)
		}
	}
	return counts, nil
}

// write is pass 3. Files are decoded concurrently; a single writer batches
// the upserts. Products whose code already exists in the store keep the
// stored id so that re-importing a file updates in place.
func (im *importer) write(ctx context.Context, files []string, dups map[string]int) (*result, error) {
	existing, err := im.store.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list existing products")
	}
	ids := make(map[string]string, len(existing))
	for _, p := range existing {
		if code := normalizeCode(p.Code); code != "" {
			ids[code] = p.ID
		}
	}

	batchSize := im.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var (
		res      result
		products = make(chan catalog.Product, batchSize)
	)

	g, gctx := errgroup.WithContext(ctx)
	var readers sync.WaitGroup
	for _, path := range files {
		readers.Add(1)
		g.Go(func() error {
			defer readers.Done()
			return streamProducts(gctx, path, func(_ int, p catalog.Product) error {
				select {
				case products <- p:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		})
	}
	go func() {
		readers.Wait()
		close(products)
	}()

	g.Go(func() error {
		batch := make([]catalog.Product, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := im.store.UpsertProducts(gctx, batch); err != nil {
				return err
			}
			res.Imported += len(batch)
			im.lg.Debug("Batch written", zap.Int("size", len(batch)), zap.Int("imported", res.Imported))
			batch = batch[:0]
			return nil
		}

		for p := range products {
			code := normalizeCode(p.Code)
			if _, dup := dups[code]; code != "" && dup {
				res.Rejected++
				continue
			}
			if id, ok := ids[code]; ok && code != "" {
				p.ID = id
			}
			batch = append(batch, p)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// streamProducts decodes a gzipped JSON-lines file and calls fn for every
// non-blank line with its 1-based line number.
func streamProducts(ctx context.Context, path string, fn func(line int, p catalog.Product) error) error {
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

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var n int
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		p, err := wire.ReadProduct(jx.DecodeBytes(raw))
		if err != nil {
			return errors.Wrapf(err, "%s:%d", path, n)
		}
		if err := fn(n, p); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
