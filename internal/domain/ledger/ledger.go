// Package ledger records sales on the server side: it prices sale requests
// against the catalog, stores them and enforces the status lifecycle.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// Line is one priced line of a recorded sale. Name and UnitPrice are copied
// from the catalog at sale time.
type Line struct {
	Kind      catalog.Kind
	ProductID string
	ServiceID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Entry is a recorded sale.
type Entry struct {
	ID            string
	SoldAt        time.Time
	Lines         []Line
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Net           decimal.Decimal
	PaymentMethod sale.PaymentMethod
	Status        sale.Status
	Notes         string
}

// Record is the listing view of the entry.
func (e Entry) Record() sale.Record {
	return sale.Record{
		ID:            e.ID,
		SoldAt:        e.SoldAt,
		Total:         e.Net,
		Discount:      e.Discount,
		PaymentMethod: e.PaymentMethod,
		Status:        e.Status,
		Notes:         e.Notes,
	}
}

// Receipt is the receipt view of the entry.
func (e Entry) Receipt() sale.Receipt {
	items := make([]sale.ReceiptItem, len(e.Lines))
	for i, l := range e.Lines {
		items[i] = sale.ReceiptItem{
			Name:      l.Name,
			Type:      string(l.Kind),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	return sale.Receipt{
		SaleID:        e.ID,
		IssuedAt:      e.SoldAt,
		Status:        e.Status,
		Items:         items,
		Gross:         e.Gross,
		Discount:      e.Discount,
		Net:           e.Net,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
	}
}

// Catalog resolves the items referenced by a sale request. Missing ids are
// simply absent from the result.
type Catalog interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
	ServicesByIDs(ctx context.Context, ids []int64) ([]catalog.Service, error)
}

// Repository persists entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*Entry, error)
	// List returns one page of records, newest first, and the total count.
	List(ctx context.Context, f sale.Filter) ([]sale.Record, int, error)
	// Transition moves id from one status to another. It returns ErrNotFound
	// for an unknown id and ErrStatusConflict when the sale is not in from.
	Transition(ctx context.Context, id string, from, to sale.Status) error
}
