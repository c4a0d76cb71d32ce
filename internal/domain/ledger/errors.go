package ledger

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
)

// Sentinel errors for sale recording.
var (
	ErrEmptyItems       = errors.New("items required")
	ErrNoPaymentMethod  = errors.New("payment method required")
	ErrNegativeDiscount = errors.New("discount must not be negative")
	ErrNotFound         = errors.New("sale not found")
	ErrAlreadyCancelled = errors.New("sale already cancelled")
	// ErrStatusConflict is returned by Repository.Transition.
	ErrStatusConflict = errors.New("sale status changed concurrently")
)

// InvalidItemError indicates a structurally invalid request line.
type InvalidItemError struct {
	Index  int
	Reason string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

// ItemNotFoundError indicates a request line references an unknown or
// unavailable catalog item.
type ItemNotFoundError struct {
	Kind catalog.Kind
	ID   string
}

func (e *ItemNotFoundError) Error() string {
	if e.Kind == catalog.KindService {
		return fmt.Sprintf("service %s not found", e.ID)
	}
	return fmt.Sprintf("product %s not found", e.ID)
}
