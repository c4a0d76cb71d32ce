package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"
)

const (
	productColumns = `id::text, COALESCE(code, ''), name, category, brand, description,
		cost_price, sale_price, stock, min_stock, available`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	productsByIDsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE id = ANY($1::text[]::uuid[])`

	upsertProductSQL = `INSERT INTO products
		(id, code, name, category, brand, description, cost_price, sale_price, stock, min_stock, available)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			description = EXCLUDED.description,
			cost_price = EXCLUDED.cost_price,
			sale_price = EXCLUDED.sale_price,
			stock = EXCLUDED.stock,
			min_stock = EXCLUDED.min_stock,
			available = EXCLUDED.available`

	serviceColumns = `id, name, category, description, price, duration_min, active`

	listServicesSQL = `SELECT ` + serviceColumns + ` FROM services ORDER BY name, id`

	servicesByIDsSQL = `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1)`

	insertServiceSQL = `INSERT INTO services (name, category, description, price, duration_min, active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
)

var (
	_ catalog.Source = (*CatalogRepository)(nil)
	_ ledger.Catalog = (*CatalogRepository)(nil)
)

// CatalogRepository stores products and services.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// ListProducts returns every product ordered by name.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListServices returns every service ordered by name.
func (r *CatalogRepository) ListServices(ctx context.Context) ([]catalog.Service, error) {
	rows, err := r.pool.Query(ctx, listServicesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list services")
	}
	return pgx.CollectRows(rows, scanService)
}

// ProductsByIDs returns the products matching ids. Ids that are not UUIDs
// cannot exist and are skipped.
func (r *CatalogRepository) ProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, productsByIDsSQL, valid)
	if err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ServicesByIDs returns the services matching ids.
func (r *CatalogRepository) ServicesByIDs(ctx context.Context, ids []int64) ([]catalog.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, servicesByIDsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get services by ids")
	}
	return pgx.CollectRows(rows, scanService)
}

// UpsertProducts inserts or replaces products in one batch. A product
// without an ID is assigned a new UUID.
func (r *CatalogRepository) UpsertProducts(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		batch.Queue(upsertProductSQL,
			p.ID, p.Code, p.Name, p.Category, p.Brand, p.Description,
			p.CostPrice, p.SalePrice, p.Stock, p.MinStock, p.Available,
		)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "upsert products")
	}
	return nil
}

// CreateService inserts a service and returns its assigned id.
func (r *CatalogRepository) CreateService(ctx context.Context, s catalog.Service) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertServiceSQL,
		s.Name, s.Category, s.Description, s.Price, s.DurationMin, s.Active,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "create service %q", s.Name)
	}
	return id, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Category, &p.Brand, &p.Description,
		&p.CostPrice, &p.SalePrice, &p.Stock, &p.MinStock, &p.Available,
	)
	return p, err
}

func scanService(row pgx.CollectableRow) (catalog.Service, error) {
	var s catalog.Service
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.Price, &s.DurationMin, &s.Active)
	return s, err
}
