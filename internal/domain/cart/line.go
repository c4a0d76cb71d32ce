package cart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// Ref points a line item back at its catalog entry. It is either a
// ProductRef or a ServiceRef; the variant decides which identifier is sent.
type Ref interface {
	Kind() catalog.Kind
	String() string
	itemRequest(quantity int) sale.ItemRequest
}

// ProductRef references a product by UUID.
type ProductRef struct {
	ID string
}

func (r ProductRef) Kind() catalog.Kind { return catalog.KindProduct }
func (r ProductRef) String() string     { return r.ID }

func (r ProductRef) itemRequest(quantity int) sale.ItemRequest {
	return sale.ProductItem(r.ID, quantity)
}

// ServiceRef references a service by numeric identifier.
type ServiceRef struct {
	ID int64
}

func (r ServiceRef) Kind() catalog.Kind { return catalog.KindService }
func (r ServiceRef) String() string     { return strconv.FormatInt(r.ID, 10) }

func (r ServiceRef) itemRequest(quantity int) sale.ItemRequest {
	return sale.ServiceItem(r.ID, quantity)
}

// RefOf returns the reference for a catalog item, or nil for an unknown variant.
func RefOf(item catalog.Item) Ref {
	switch v := item.(type) {
	case catalog.Product:
		return ProductRef{ID: v.ID}
	case catalog.Service:
		return ServiceRef{ID: v.ID}
	default:
		return nil
	}
}

// LineItem is one entry of the cart. EphemeralID is local to the session and
// distinct from the catalog identifier carried by Ref; adding the same catalog
// item twice yields two lines.
type LineItem struct {
	EphemeralID string
	Ref         Ref
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Kind is the catalog variant of the line.
func (l LineItem) Kind() catalog.Kind {
	return l.Ref.Kind()
}

// Subtotal is UnitPrice × Quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
