// Package salelist implements the paginated sale listing: filter form,
// page navigation, receipt viewing and cancellation.
package salelist

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// ErrSuperseded is returned by a query whose response arrived after a newer
// query was issued. The response is discarded.
var ErrSuperseded = errors.New("listing superseded by a newer query")

// Service is the sale API used by the listing. *sale.Service satisfies it.
type Service interface {
	List(ctx context.Context, f sale.Filter) (*sale.Page, error)
	Cancel(ctx context.Context, rec sale.Record) error
	Receipt(ctx context.Context, id string) (*sale.Receipt, error)
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the view logger.
func WithLogger(lg *zap.Logger) Option {
	return func(v *View) {
		v.lg = lg
	}
}

// WithPageSize overrides sale.DefaultPageSize.
func WithPageSize(size int) Option {
	return func(v *View) {
		if size > 0 {
			v.size = size
		}
	}
}

// View is the state of the sale listing screen. Every query uses the form as
// it is at the time the query is issued.
type View struct {
	svc  Service
	lg   *zap.Logger
	size int

	mu      sync.Mutex
	form    Form
	page    int
	seq     uint64
	result  *sale.Page
	receipt *sale.Receipt
	menu    Menu
}

// New creates a listing view. Nothing is fetched until the first query.
func New(svc Service, opts ...Option) *View {
	v := &View{
		svc:  svc,
		lg:   zap.NewNop(),
		size: sale.DefaultPageSize,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Form returns the current filter form.
func (v *View) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form
}

// SetForm replaces the filter form without querying.
func (v *View) SetForm(f Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
}

// PageIndex is the zero-based page of the last accepted listing. A failed
// or superseded query leaves it unchanged.
func (v *View) PageIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// Result is the last page accepted, or nil.
func (v *View) Result() *sale.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Receipt is the receipt being shown, or nil.
func (v *View) Receipt() *sale.Receipt {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.receipt
}

// Menu exposes the row action menu.
func (v *View) Menu() *Menu {
	return &v.menu
}

// CanNext reports whether a later page exists.
func (v *View) CanNext() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result != nil && v.page < v.result.TotalPages-1
}

// CanPrev reports whether an earlier page exists.
func (v *View) CanPrev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page > 0
}

// Search queries page 0 with the current form.
func (v *View) Search(ctx context.Context) (*sale.Page, error) {
	return v.query(ctx, func(int) int { return 0 })
}

// Clear empties the form and queries page 0 immediately.
func (v *View) Clear(ctx context.Context) (*sale.Page, error) {
	v.mu.Lock()
	v.form = Form{}
	v.mu.Unlock()
	return v.Search(ctx)
}

// AfterCreate refreshes the listing after a sale was created so that it
// shows up on a fresh first page.
func (v *View) AfterCreate(ctx context.Context) (*sale.Page, error) {
	return v.Clear(ctx)
}

// Next moves one page forward. On the last page it is a no-op.
func (v *View) Next(ctx context.Context) (*sale.Page, error) {
	if !v.CanNext() {
		return v.Result(), nil
	}
	return v.query(ctx, func(p int) int { return p + 1 })
}

// Prev moves one page back. On the first page it is a no-op.
func (v *View) Prev(ctx context.Context) (*sale.Page, error) {
	if !v.CanPrev() {
		return v.Result(), nil
	}
	return v.query(ctx, func(p int) int { return max(0, p-1) })
}

// Reload re-queries the current page with the current form.
func (v *View) Reload(ctx context.Context) (*sale.Page, error) {
	return v.query(ctx, func(p int) int { return p })
}

// Cancel cancels a sale and reloads the current page. An already cancelled
// sale is refused by sale.Service without a request and without reload.
func (v *View) Cancel(ctx context.Context, rec sale.Record) (*sale.Page, error) {
	v.menu.Blur()
	if err := v.svc.Cancel(ctx, rec); err != nil {
		return nil, err
	}
	return v.Reload(ctx)
}

// OpenReceipt fetches and shows the receipt of a sale. On failure any shown
// receipt is cleared.
func (v *View) OpenReceipt(ctx context.Context, id string) (*sale.Receipt, error) {
	v.menu.Blur()
	r, err := v.svc.Receipt(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.receipt = nil
		return nil, err
	}
	v.receipt = r
	return r, nil
}

// CloseReceipt hides the receipt.
func (v *View) CloseReceipt() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.receipt = nil
}

// query issues a listing for the page chosen by pick. Each query takes the
// next sequence number; a response is applied only if no newer query was
// issued in the meantime. The page index moves with the applied response.
func (v *View) query(ctx context.Context, pick func(current int) int) (*sale.Page, error) {
	v.mu.Lock()
	page := pick(v.page)
	f, err := v.form.Filter(page, v.size)
	if err != nil {
		v.mu.Unlock()
		return nil, errors.Wrap(err, "filter")
	}
	v.seq++
	seq := v.seq
	v.mu.Unlock()

	res, err := v.svc.List(ctx, f)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		v.lg.Debug("Discarding stale listing",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", v.seq),
		)
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	v.page = page
	v.result = res
	return res, nil
}
