package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItem is one resolved line on a receipt.
type ReceiptItem struct {
	Name      string
	Type      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal is UnitPrice × Quantity.
func (i ReceiptItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Receipt is the read-only projection of a completed or cancelled sale.
type Receipt struct {
	SaleID        string
	IssuedAt      time.Time
	Status        Status
	Items         []ReceiptItem
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Net           decimal.Decimal
	PaymentMethod PaymentMethod
	Notes         string
}

// Record projects the receipt header back to a listing record.
func (r Receipt) Record() Record {
	return Record{
		ID:            r.SaleID,
		SoldAt:        r.IssuedAt,
		Total:         r.Net,
		Discount:      r.Discount,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		Notes:         r.Notes,
	}
}
