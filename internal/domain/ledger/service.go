package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

const meterName = "github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDs overrides uuid.NewString for sale identifiers.
func WithIDs(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithMeterProvider enables the sales counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.mp = mp
	}
}

// Service encapsulates sale recording business logic.
type Service struct {
	catalog Catalog
	sales   Repository
	now     func() time.Time
	newID   func() string
	mp      metric.MeterProvider

	created   metric.Int64Counter
	cancelled metric.Int64Counter
}

// NewService creates a ledger Service.
func NewService(cat Catalog, sales Repository, opts ...Option) (*Service, error) {
	s := &Service{
		catalog: cat,
		sales:   sales,
		now:     time.Now,
		newID:   uuid.NewString,
		mp:      noop.NewMeterProvider(),
	}
	for _, o := range opts {
		o(s)
	}

	meter := s.mp.Meter(meterName)
	var err error
	if s.created, err = meter.Int64Counter("salon.sales.created",
		metric.WithDescription("Sales recorded"),
	); err != nil {
		return nil, errors.Wrap(err, "sales created counter")
	}
	if s.cancelled, err = meter.Int64Counter("salon.sales.cancelled",
		metric.WithDescription("Sales cancelled"),
	); err != nil {
		return nil, errors.Wrap(err, "sales cancelled counter")
	}
	return s, nil
}

// Record validates and prices req, then stores it as a completed sale. Net
// is Gross - Discount floored at zero and rounded to two places.
func (s *Service) Record(ctx context.Context, req sale.Request) (*Entry, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if req.PaymentMethod == "" {
		return nil, ErrNoPaymentMethod
	}
	method, err := sale.ParsePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return nil, err
	}
	if req.Discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	var (
		productIDs []string
		serviceIDs []int64
	)
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &InvalidItemError{Index: i, Reason: "quantity must be greater than 0"}
		}
		switch {
		case it.ProductID != nil && it.ServiceID != nil:
			return nil, &InvalidItemError{Index: i, Reason: "set either produtoId or servicoId, not both"}
		case it.ProductID != nil:
			productIDs = append(productIDs, *it.ProductID)
		case it.ServiceID != nil:
			serviceIDs = append(serviceIDs, *it.ServiceID)
		default:
			return nil, &InvalidItemError{Index: i, Reason: "produtoId or servicoId required"}
		}
	}

	products, services, err := s.resolve(ctx, productIDs, serviceIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, len(req.Items))
	gross := decimal.Zero
	for i, it := range req.Items {
		var l Line
		if it.ProductID != nil {
			p, ok := products[*it.ProductID]
			if !ok || !p.Available {
				return nil, &ItemNotFoundError{Kind: catalog.KindProduct, ID: *it.ProductID}
			}
			l = Line{Kind: catalog.KindProduct, ProductID: p.ID, Name: p.Name, UnitPrice: p.SalePrice}
		} else {
			svc, ok := services[*it.ServiceID]
			if !ok || !svc.Active {
				return nil, &ItemNotFoundError{Kind: catalog.KindService, ID: strconv.FormatInt(*it.ServiceID, 10)}
			}
			l = Line{Kind: catalog.KindService, ServiceID: svc.ID, Name: svc.Name, UnitPrice: svc.Price}
		}
		l.Quantity = it.Quantity
		lines[i] = l
		gross = gross.Add(l.Subtotal())
	}

	net := gross.Sub(req.Discount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	e := &Entry{
		ID:            s.newID(),
		SoldAt:        s.now().UTC(),
		Lines:         lines,
		Gross:         gross.Round(2),
		Discount:      req.Discount.Round(2),
		Net:           net.Round(2),
		PaymentMethod: method,
		Status:        sale.StatusCompleted,
		Notes:         req.Notes,
	}
	if err := s.sales.Create(ctx, e); err != nil {
		return nil, errors.Wrap(err, "create sale")
	}

	s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", string(method))))
	return e, nil
}

func (s *Service) resolve(ctx context.Context, productIDs []string, serviceIDs []int64) (map[string]catalog.Product, map[int64]catalog.Service, error) {
	products := make(map[string]catalog.Product, len(productIDs))
	if len(productIDs) > 0 {
		found, err := s.catalog.ProductsByIDs(ctx, productIDs)
		if err != nil {
			return nil, nil, errors.Wrap(err, "get products")
		}
		for _, p := range found {
			products[p.ID] = p
		}
	}

	services := make(map[int64]catalog.Service, len(serviceIDs))
	if len(serviceIDs) > 0 {
		found, err := s.catalog.ServicesByIDs(ctx, serviceIDs)
		if err != nil {
			return nil, nil, errors.Wrap(err, "get services")
		}
		for _, svc := range found {
			services[svc.ID] = svc
		}
	}

	return products, services, nil
}

// List returns one page of sales, newest first.
func (s *Service) List(ctx context.Context, f sale.Filter) (*sale.Page, error) {
	if f.Size <= 0 {
		f.Size = sale.DefaultPageSize
	}
	if f.Page < 0 {
		f.Page = 0
	}

	records, total, err := s.sales.List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	if records == nil {
		records = []sale.Record{}
	}

	pages := (total + f.Size - 1) / f.Size
	return &sale.Page{
		Content:       records,
		TotalPages:    pages,
		TotalElements: total,
		Size:          f.Size,
		Number:        f.Page,
		First:         f.Page == 0,
		Last:          f.Page >= pages-1,
		Empty:         len(records) == 0,
	}, nil
}

// Cancel moves a completed sale to CANCELADA.
func (s *Service) Cancel(ctx context.Context, id string) error {
	err := s.sales.Transition(ctx, id, sale.StatusCompleted, sale.StatusCancelled)
	switch {
	case errors.Is(err, ErrStatusConflict):
		return ErrAlreadyCancelled
	case err != nil:
		return err
	}
	s.cancelled.Add(ctx, 1)
	return nil
}

// Receipt returns the receipt of a sale.
func (s *Service) Receipt(ctx context.Context, id string) (*sale.Receipt, error) {
	e, err := s.sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r := e.Receipt()
	return &r, nil
}
