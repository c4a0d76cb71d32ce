package sale

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// RejectReason names a locally detected submission precondition failure.
type RejectReason string

const (
	ReasonEmptyCart       RejectReason = "EMPTY_CART"
	ReasonNoPaymentMethod RejectReason = "NO_PAYMENT_METHOD"
)

// Sentinel errors matched by RejectedError.Is.
var (
	ErrEmptyCart       = errors.New("add at least one item")
	ErrNoPaymentMethod = errors.New("select a payment method")
)

// RejectedError indicates a sale was refused before any network call.
type RejectedError struct {
	Reason RejectReason
}

func (e *RejectedError) Error() string {
	switch e.Reason {
	case ReasonEmptyCart:
		return ErrEmptyCart.Error()
	case ReasonNoPaymentMethod:
		return ErrNoPaymentMethod.Error()
	default:
		return fmt.Sprintf("sale rejected: %s", e.Reason)
	}
}

// Is lets callers match a rejection with errors.Is(err, ErrEmptyCart).
func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrEmptyCart:
		return e.Reason == ReasonEmptyCart
	case ErrNoPaymentMethod:
		return e.Reason == ReasonNoPaymentMethod
	}
	return false
}

// ItemRequest is one line of a sale request. Exactly one of ProductID and
// ServiceID is set; use ProductItem or ServiceItem to build it.
type ItemRequest struct {
	Quantity  int
	ProductID *string
	ServiceID *int64
}

// ProductItem builds a product line.
func ProductItem(id string, quantity int) ItemRequest {
	return ItemRequest{Quantity: quantity, ProductID: &id}
}

// ServiceItem builds a service line.
func ServiceItem(id int64, quantity int) ItemRequest {
	return ItemRequest{Quantity: quantity, ServiceID: &id}
}

// Request is the normalized payload submitted to create a sale.
type Request struct {
	// Discount is sent exactly as entered (after coercion); it is not capped
	// at the subtotal.
	Discount      decimal.Decimal
	Items         []ItemRequest
	PaymentMethod PaymentMethod
	Notes         string
}

// NewRequest checks the submission preconditions in order: a non-empty item
// list first, then a selected payment method.
func NewRequest(items []ItemRequest, discount decimal.Decimal, method PaymentMethod, notes string) (Request, error) {
	if len(items) == 0 {
		return Request{}, &RejectedError{Reason: ReasonEmptyCart}
	}
	if method == "" {
		return Request{}, &RejectedError{Reason: ReasonNoPaymentMethod}
	}
	return Request{
		Discount:      discount,
		Items:         items,
		PaymentMethod: method,
		Notes:         notes,
	}, nil
}
