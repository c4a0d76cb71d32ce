package salelist

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// Form holds the listing filters as typed by the operator. Blank fields are
// absent from the query.
type Form struct {
	Start  string // yyyy-mm-dd
	End    string // yyyy-mm-dd
	Min    string
	Max    string
	Status string
}

// IsZero reports whether every field is blank.
func (f Form) IsZero() bool {
	return strings.TrimSpace(f.Start) == "" &&
		strings.TrimSpace(f.End) == "" &&
		strings.TrimSpace(f.Min) == "" &&
		strings.TrimSpace(f.Max) == "" &&
		strings.TrimSpace(f.Status) == ""
}

// Filter converts the form into a query for the given page. Dates and status
// must be well formed; amounts use the permissive coercion. Ranges are not
// cross-checked, so a minimum above the maximum is sent as typed.
func (f Form) Filter(page, size int) (sale.Filter, error) {
	out := sale.Filter{Page: page, Size: size}

	start, err := parseDate(f.Start)
	if err != nil {
		return sale.Filter{}, errors.Wrap(err, "start date")
	}
	out.Start = start

	end, err := parseDate(f.End)
	if err != nil {
		return sale.Filter{}, errors.Wrap(err, "end date")
	}
	out.End = end

	out.MinAmount = parseAmount(f.Min)
	out.MaxAmount = parseAmount(f.Max)

	if s := strings.TrimSpace(f.Status); s != "" {
		st, err := sale.ParseStatus(s)
		if err != nil {
			return sale.Filter{}, err
		}
		out.Status = &st
	}

	return out, nil
}

func parseDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(sale.DateLayout, text)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", text)
	}
	return &t, nil
}

func parseAmount(text string) *decimal.Decimal {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	d := sale.ParseAmount(text)
	return &d
}
