package sale

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates how a sale was paid. Values are the API wire names.
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "PIX"
	PaymentCash       PaymentMethod = "DINHEIRO"
	PaymentCreditCard PaymentMethod = "CARTAO_CREDITO"
	PaymentDebitCard  PaymentMethod = "CARTAO_DEBITO"
	// PaymentDeferred is a sale put on the client's tab.
	PaymentDeferred PaymentMethod = "FIADO"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentPix, PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentDeferred,
}

// ErrUnknownPaymentMethod is returned by ParsePaymentMethod for unrecognised input.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ParsePaymentMethod accepts a wire name or one of the short English aliases.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "PIX", "pix":
		return PaymentPix, nil
	case "DINHEIRO", "cash":
		return PaymentCash, nil
	case "CARTAO_CREDITO", "credit":
		return PaymentCreditCard, nil
	case "CARTAO_DEBITO", "debit":
		return PaymentDebitCard, nil
	case "FIADO", "deferred":
		return PaymentDeferred, nil
	default:
		return "", errors.Wrapf(ErrUnknownPaymentMethod, "%q", s)
	}
}

// Label returns the method as shown to an operator ("CARTAO CREDITO").
func (m PaymentMethod) Label() string {
	if m == "" {
		return "-"
	}
	b := []byte(m)
	for i, c := range b {
		if c == '_' {
			b[i] = ' '
			break
		}
	}
	return string(b)
}

// Status is the lifecycle state of a persisted sale.
type Status string

const (
	StatusCompleted Status = "CONCLUIDA"
	StatusCancelled Status = "CANCELADA"
)

// ErrUnknownStatus is returned by ParseStatus for unrecognised input.
var ErrUnknownStatus = errors.New("unknown sale status")

// ParseStatus accepts a wire name or the English alias.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "CONCLUIDA", "COMPLETADA", "completed":
		return StatusCompleted, nil
	case "CANCELADA", "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
	}
}

// CanTransition reports whether a sale may move from s to next.
// COMPLETED -> CANCELLED is the only legal transition.
func (s Status) CanTransition(next Status) bool {
	return s == StatusCompleted && next == StatusCancelled
}

// Record is a server-confirmed sale as returned by the listing endpoint.
type Record struct {
	ID            string
	SoldAt        time.Time
	Total         decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod PaymentMethod
	Status        Status
	Notes         string
}

// Cancelled reports whether the sale reached its terminal state.
func (r Record) Cancelled() bool {
	return r.Status == StatusCancelled
}

// ShortID is the first eight characters of the identifier, used in listings.
func (r Record) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Page is one page of a paginated sale listing.
type Page struct {
	Content       []Record
	TotalPages    int
	TotalElements int
	Size          int
	// Number is the zero-based index of this page.
	Number int
	First  bool
	Last   bool
	Empty  bool
}
