// Command catalog-import loads products from gzipped JSON-lines files.
//
// Every line is one product in the API wire format. Lookup codes must be
// unique across all files, ignoring case; every product whose code appears
// more than once is rejected and reported, the rest are upserted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		cfg         importConfig
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&cfg.BatchSize, "batch-size", defaultBatchSize, "products per upsert batch")
	flag.UintVar(&cfg.Capacity, "expected", defaultCapacity, "expected number of products per file")
	flag.Float64Var(&cfg.FPR, "fpr", defaultFPR, "bloom filter false positive rate")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "validate files without writing")
	flag.Parse()

	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	files := flag.Args()
	if len(files) == 0 {
		lg.Fatal("Usage: catalog-import [flags] FILE.jsonl.gz...")
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" && !cfg.DryRun {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, databaseURL, files, cfg); err != nil {
		lg.Fatal("Catalog import failed", zap.Error(err))
	}
	lg.Info("Catalog import completed")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL string, files []string, cfg importConfig) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	var st store = discardStore{}
	if !cfg.DryRun {
		pool, err := postgres.NewPool(ctx, databaseURL)
		if err != nil {
			return errors.Wrap(err, "connect to database")
		}
		defer pool.Close()
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		st = postgres.NewCatalogRepository(pool)
	}

	im := &importer{lg: lg, store: st, cfg: cfg}
	res, err := im.Run(ctx, files)
	if err != nil {
		return err
	}
	for code, n := range res.Duplicates {
		lg.Warn("Rejected duplicate lookup code", zap.String("code", code), zap.Int("occurrences", n))
	}
	lg.Info("Import summary",
		zap.Int("imported", res.Imported),
		zap.Int("rejected", res.Rejected),
		zap.Int("duplicate_codes", len(res.Duplicates)),
		zap.Bool("dry_run", cfg.DryRun),
	)
	return nil
}
