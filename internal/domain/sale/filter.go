package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used by listing filters.
const DateLayout = "2006-01-02"

// DefaultPageSize is the number of sales shown per listing page.
const DefaultPageSize = 10

// Filter narrows a paginated sale listing. Nil fields are absent and are not
// transmitted, letting the API apply its own defaults. No cross-field checks
// are made: a Start after End or a MinAmount above MaxAmount is sent as-is.
type Filter struct {
	Start     *time.Time
	End       *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Status    *Status
	// Page is zero-based.
	Page int
	Size int
}

// HasConstraints reports whether any narrowing field is present.
func (f Filter) HasConstraints() bool {
	return f.Start != nil || f.End != nil || f.MinAmount != nil || f.MaxAmount != nil || f.Status != nil
}
