package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

const (
	insertSaleSQL = `INSERT INTO sales (id, sold_at, gross, discount, net, payment_method, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertLineSQL = `INSERT INTO sale_lines
		(sale_id, position, kind, product_id, service_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getSaleSQL = `SELECT id::text, sold_at, gross, discount, net, payment_method, status, notes
		FROM sales WHERE id = $1`

	getLinesSQL = `SELECT kind, COALESCE(product_id::text, ''), COALESCE(service_id, 0), name, unit_price, quantity
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`

	recordColumns = `id::text, sold_at, net, discount, payment_method, status, notes`

	transitionSQL = `UPDATE sales SET status = $3 WHERE id = $1 AND status = $2`

	statusSQL = `SELECT status FROM sales WHERE id = $1`
)

var _ ledger.Repository = (*SaleRepository)(nil)

// SaleRepository stores sales and their lines.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository returns a SaleRepository that uses the given pool.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create persists the sale header and its lines in one transaction.
func (r *SaleRepository) Create(ctx context.Context, e *ledger.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertSaleSQL,
		e.ID, e.SoldAt, e.Gross, e.Discount, e.Net,
		string(e.PaymentMethod), string(e.Status), e.Notes,
	); err != nil {
		return errors.Wrapf(err, "insert sale %q", e.ID)
	}

	batch := &pgx.Batch{}
	for i, l := range e.Lines {
		var (
			productID *string
			serviceID *int64
		)
		switch l.Kind {
		case catalog.KindProduct:
			productID = &l.ProductID
		case catalog.KindService:
			serviceID = &l.ServiceID
		}
		batch.Queue(insertLineSQL,
			e.ID, i, string(l.Kind), productID, serviceID, l.Name, l.UnitPrice, l.Quantity,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert lines of sale %q", e.ID)
	}

	return tx.Commit(ctx)
}

// Get loads a sale with its lines.
func (r *SaleRepository) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ledger.ErrNotFound
	}

	var (
		e             ledger.Entry
		method, state string
	)
	err := r.pool.QueryRow(ctx, getSaleSQL, id).Scan(
		&e.ID, &e.SoldAt, &e.Gross, &e.Discount, &e.Net, &method, &state, &e.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get sale %q", id)
	}
	e.PaymentMethod = sale.PaymentMethod(method)
	e.Status = sale.Status(state)

	rows, err := r.pool.Query(ctx, getLinesSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get lines of sale %q", id)
	}
	e.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (ledger.Line, error) {
		var (
			l    ledger.Line
			kind string
		)
		err := row.Scan(&kind, &l.ProductID, &l.ServiceID, &l.Name, &l.UnitPrice, &l.Quantity)
		l.Kind = catalog.Kind(kind)
		return l, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan lines of sale %q", id)
	}
	return &e, nil
}

// List returns one page of records matching f, newest first, and the number
// of matching sales. The end date is inclusive.
func (r *SaleRepository) List(ctx context.Context, f sale.Filter) ([]sale.Record, int, error) {
	where, args := filterClause(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count sales")
	}
	if total == 0 {
		return nil, 0, nil
	}

	n := len(args)
	query := `SELECT ` + recordColumns + ` FROM sales` + where +
		` ORDER BY sold_at DESC, id LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, f.Size, f.Page*f.Size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list sales")
	}
	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, 0, errors.Wrap(err, "scan sales")
	}
	return records, total, nil
}

// Transition changes the status of a sale only if it is currently from.
func (r *SaleRepository) Transition(ctx context.Context, id string, from, to sale.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return ledger.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, transitionSQL, id, string(from), string(to))
	if err != nil {
		return errors.Wrapf(err, "update status of sale %q", id)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	if err := r.pool.QueryRow(ctx, statusSQL, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.ErrNotFound
		}
		return errors.Wrapf(err, "get status of sale %q", id)
	}
	return ledger.ErrStatusConflict
}

func filterClause(f sale.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Start != nil {
		add("sold_at >= ?", *f.Start)
	}
	if f.End != nil {
		add("sold_at < ?::timestamptz + interval '1 day'", *f.End)
	}
	if f.MinAmount != nil {
		add("net >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add("net <= ?", *f.MaxAmount)
	}
	if f.Status != nil {
		add("status = ?", string(*f.Status))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecord(row pgx.CollectableRow) (sale.Record, error) {
	var (
		rec           sale.Record
		method, state string
	)
	err := row.Scan(&rec.ID, &rec.SoldAt, &rec.Total, &rec.Discount, &method, &state, &rec.Notes)
	rec.PaymentMethod = sale.PaymentMethod(method)
	rec.Status = sale.Status(state)
	return rec, err
}
