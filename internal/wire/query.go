package wire

import (
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

// Listing query parameters.
const (
	ParamPage      = "page"
	ParamSize      = "size"
	ParamStart     = "dataInicio"
	ParamEnd       = "dataFim"
	ParamMinAmount = "valorMin"
	ParamMaxAmount = "valorMax"
	ParamStatus    = "status"
)

// MaxPageSize caps the size a server accepts.
const MaxPageSize = 100

// FilterQuery renders a listing filter as query parameters. Page and size
// are always present; absent filter fields produce no parameter at all.
func FilterQuery(f sale.Filter) url.Values {
	q := url.Values{}
	q.Set(ParamPage, strconv.Itoa(f.Page))
	size := f.Size
	if size <= 0 {
		size = sale.DefaultPageSize
	}
	q.Set(ParamSize, strconv.Itoa(size))
	if f.Start != nil {
		q.Set(ParamStart, f.Start.Format(sale.DateLayout))
	}
	if f.End != nil {
		q.Set(ParamEnd, f.End.Format(sale.DateLayout))
	}
	if f.MinAmount != nil {
		q.Set(ParamMinAmount, f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		q.Set(ParamMaxAmount, f.MaxAmount.String())
	}
	if f.Status != nil {
		q.Set(ParamStatus, string(*f.Status))
	}
	return q
}

// ParseFilterQuery is the server-side inverse of FilterQuery. Missing page
// and size default to 0 and sale.DefaultPageSize; malformed values fail.
func ParseFilterQuery(q url.Values) (sale.Filter, error) {
	f := sale.Filter{Size: sale.DefaultPageSize}

	if v := q.Get(ParamPage); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return sale.Filter{}, errors.Errorf("invalid %s %q", ParamPage, v)
		}
		f.Page = n
	}
	if v := q.Get(ParamSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxPageSize {
			return sale.Filter{}, errors.Errorf("invalid %s %q", ParamSize, v)
		}
		f.Size = n
	}

	var err error
	if f.Start, err = queryDate(q, ParamStart); err != nil {
		return sale.Filter{}, err
	}
	if f.End, err = queryDate(q, ParamEnd); err != nil {
		return sale.Filter{}, err
	}
	if f.MinAmount, err = queryDecimal(q, ParamMinAmount); err != nil {
		return sale.Filter{}, err
	}
	if f.MaxAmount, err = queryDecimal(q, ParamMaxAmount); err != nil {
		return sale.Filter{}, err
	}
	if v := q.Get(ParamStatus); v != "" {
		st, err := sale.ParseStatus(v)
		if err != nil {
			return sale.Filter{}, errors.Wrap(err, ParamStatus)
		}
		f.Status = &st
	}

	return f, nil
}

func queryDate(q url.Values, name string) (*time.Time, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(sale.DateLayout, v)
	if err != nil {
		return nil, errors.Errorf("invalid %s %q", name, v)
	}
	return &t, nil
}

func queryDecimal(q url.Values, name string) (*decimal.Decimal, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, errors.Errorf("invalid %s %q", name, v)
	}
	return &d, nil
}
