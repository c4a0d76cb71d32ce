// Command seed-db applies migrations and loads a sample catalog and the
// first operator account.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/auth"
	"github.com/JamersonCarlos/beauty-salon-web/internal/storage/postgres"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

type options struct {
	databaseURL  string
	productsFile string
	servicesFile string
	username     string
	password     string
	pepper       string
}

func main() {
	var opt options

	flag.StringVar(&opt.databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&opt.productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&opt.servicesFile, "services-file", "db/seed/services.json", "path to services JSON file")
	flag.StringVar(&opt.username, "username", "admin", "operator username to seed")
	flag.StringVar(&opt.password, "password", "", "operator password (or SALON_SEED_PASSWORD env)")
	flag.StringVar(&opt.pepper, "pepper", "", "HMAC pepper for password hashing (or SALON_API_PEPPER env)")
	flag.Parse()

	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if opt.databaseURL == "" {
		opt.databaseURL = os.Getenv("DATABASE_URL")
	}
	if opt.databaseURL == "" {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}
	if opt.password == "" {
		opt.password = os.Getenv("SALON_SEED_PASSWORD")
	}
	if opt.password == "" {
		lg.Fatal("Operator password is required: set --password or SALON_SEED_PASSWORD")
	}
	if opt.pepper == "" {
		opt.pepper = os.Getenv("SALON_API_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, opt); err != nil {
		lg.Fatal("Seed failed", zap.Error(err))
	}
	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, opt options) error {
	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, opt.databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCatalogRepository(pool)
	if err := seedProducts(ctx, lg, repo, opt.productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedServices(ctx, lg, repo, opt.servicesFile); err != nil {
		return errors.Wrap(err, "seed services")
	}
	if err := seedOperator(ctx, lg, pool, opt); err != nil {
		return errors.Wrap(err, "seed operator")
	}
	return nil
}

func seedProducts(ctx context.Context, lg *zap.Logger, repo *postgres.CatalogRepository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}
	products, err := wire.DecodeProducts(data)
	if err != nil {
		return errors.Wrap(err, "parse products")
	}
	if err := repo.UpsertProducts(ctx, products); err != nil {
		return err
	}
	lg.Info("Upserted products", zap.String("path", path), zap.Int("count", len(products)))
	return nil
}

// seedServices inserts the sample services only into an empty table, since
// services have no natural key to upsert on.
func seedServices(ctx context.Context, lg *zap.Logger, repo *postgres.CatalogRepository, path string) error {
	existing, err := repo.ListServices(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lg.Info("Services already present, skipping", zap.Int("count", len(existing)))
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read services file")
	}
	services, err := wire.DecodeServices(data)
	if err != nil {
		return errors.Wrap(err, "parse services")
	}
	for _, s := range services {
		id, err := repo.CreateService(ctx, s)
		if err != nil {
			return err
		}
		lg.Debug("Created service", zap.Int64("id", id), zap.String("name", s.Name))
	}
	lg.Info("Created services", zap.String("path", path), zap.Int("count", len(services)))
	return nil
}

func seedOperator(ctx context.Context, lg *zap.Logger, pool *pgxpool.Pool, opt options) error {
	repo := postgres.NewAuthRepository(pool)
	// The hash must match what auth.Service computes at login.
	svc := auth.NewService(repo, []byte(opt.pepper), 0)
	if err := repo.SaveOperator(ctx, auth.Operator{
		Username:     opt.username,
		PasswordHash: svc.Digest(opt.password),
		Scopes:       []string{"sales"},
	}); err != nil {
		return err
	}
	lg.Info("Saved operator", zap.String("username", opt.username))
	return nil
}
