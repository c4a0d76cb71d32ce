package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// Totals summarises a cart. Total is floored at zero for display; Net is the
// raw Subtotal - Discount and may be negative.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Net      decimal.Decimal
}

// Cart is an ordered collection of line items plus the sale-level fields
// entered by the operator. A Cart is owned by a single session and is not
// safe for concurrent use.
type Cart struct {
	lines []LineItem
	ids   IDGenerator

	Discount      decimal.Decimal
	PaymentMethod sale.PaymentMethod
	Notes         string
}

// Option configures a Cart.
type Option func(*Cart)

// WithIDGenerator replaces the default UUID line identifiers.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Cart) {
		c.ids = g
	}
}

// New creates an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{ids: UUIDGenerator{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Add appends a new line for item with quantity 1 and returns it. Lines are
// never merged. item must be a catalog.Product or catalog.Service.
func (c *Cart) Add(item catalog.Item) LineItem {
	line := LineItem{
		EphemeralID: c.uniqueID(),
		Ref:         RefOf(item),
		Name:        item.DisplayName(),
		UnitPrice:   item.UnitPrice(),
		Quantity:    1,
	}
	c.lines = append(c.lines, line)
	return line
}

// maxIDAttempts bounds how many collisions the configured generator may
// produce before Add falls back to random UUIDs.
const maxIDAttempts = 16

// uniqueID draws identifiers until one is not held by a current line.
func (c *Cart) uniqueID() string {
	gen := c.ids
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			gen = UUIDGenerator{}
		}
		id := gen.NewID()
		if !slices.ContainsFunc(c.lines, func(l LineItem) bool { return l.EphemeralID == id }) {
			return id
		}
	}
}

// Remove deletes the line with the given ephemeral id. It reports whether a
// line was removed; unknown ids are ignored.
func (c *Cart) Remove(ephemeralID string) bool {
	i := slices.IndexFunc(c.lines, func(l LineItem) bool { return l.EphemeralID == ephemeralID })
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

// Lines returns the line items in insertion order.
func (c *Cart) Lines() []LineItem {
	return slices.Clone(c.lines)
}

// Len is the number of line items.
func (c *Cart) Len() int {
	return len(c.lines)
}

// SetDiscountText stores the discount typed by the operator using the
// permissive amount coercion: malformed text becomes zero.
func (c *Cart) SetDiscountText(text string) {
	c.Discount = sale.ParseAmount(text)
}

// Clear empties the cart and resets the sale-level fields.
func (c *Cart) Clear() {
	c.lines = nil
	c.Discount = decimal.Zero
	c.PaymentMethod = ""
	c.Notes = ""
}

// Totals computes subtotal, discount, display total and raw net.
func (c *Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	net := subtotal.Sub(c.Discount)
	total := net
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: c.Discount,
		Total:    total,
		Net:      net,
	}
}

// Request builds the sale payload. The discount is passed through unclamped
// even when it exceeds the subtotal.
func (c *Cart) Request() (sale.Request, error) {
	items := make([]sale.ItemRequest, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, l.Ref.itemRequest(l.Quantity))
	}
	return sale.NewRequest(items, c.Discount, c.PaymentMethod, c.Notes)
}
