package catalog

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind discriminates the two sellable catalog variants.
type Kind string

const (
	// KindProduct identifies retail products (UUID identifiers, optional lookup code).
	KindProduct Kind = "PRODUTO"
	// KindService identifies salon services (numeric identifiers).
	KindService Kind = "SERVICO"
)

// ErrUnknownKind is returned when a kind string does not name a catalog variant.
var ErrUnknownKind = errors.New("unknown catalog kind")

// ParseKind maps user input ("product", "servico", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "product", "produto", "PRODUTO", "p":
		return KindProduct, nil
	case "service", "servico", "SERVICO", "s":
		return KindService, nil
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
}

// Product is a retail item sold over the counter.
type Product struct {
	ID          string
	Code        string
	Name        string
	Category    string
	Brand       string
	Description string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Stock       int
	MinStock    int
	Available   bool
}

// Service is a salon service performed for a client.
type Service struct {
	ID          int64
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	DurationMin int
	Active      bool
}

// Item is the read-only view shared by both catalog variants.
type Item interface {
	Kind() Kind
	// Key is the identifier rendered as a string, used by pickers and lookups.
	Key() string
	DisplayName() string
	UnitPrice() decimal.Decimal
}

var (
	_ Item = Product{}
	_ Item = Service{}
)

func (p Product) Kind() Kind                 { return KindProduct }
func (p Product) Key() string                { return p.ID }
func (p Product) DisplayName() string        { return p.Name }
func (p Product) UnitPrice() decimal.Decimal { return p.SalePrice }

func (s Service) Kind() Kind                 { return KindService }
func (s Service) Key() string                { return strconv.FormatInt(s.ID, 10) }
func (s Service) DisplayName() string        { return s.Name }
func (s Service) UnitPrice() decimal.Decimal { return s.Price }

// Source lists the full catalog from the remote API.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListServices(ctx context.Context) ([]Service, error)
}
