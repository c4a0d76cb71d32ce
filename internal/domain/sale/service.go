package sale

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ErrAlreadyCancelled is returned when cancelling a sale that is already
// cancelled. No request is sent in that case.
var ErrAlreadyCancelled = errors.New("sale already cancelled")

// TransportError wraps a failure reported by the remote API or the network.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport is the remote sale API.
type Transport interface {
	Create(ctx context.Context, req Request) (*Record, error)
	List(ctx context.Context, f Filter) (*Page, error)
	Cancel(ctx context.Context, id string) error
	Receipt(ctx context.Context, id string) (*Receipt, error)
}

// Service runs sale submission, listing, receipt retrieval and cancellation
// against a Transport. It never retries.
type Service struct {
	transport Transport
	lg        *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(transport Transport, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		transport: transport,
		lg:        lg,
	}
}

// Submit re-checks the request preconditions and creates the sale. A
// rejection is returned without contacting the API.
func (s *Service) Submit(ctx context.Context, req Request) (*Record, error) {
	if _, err := NewRequest(req.Items, req.Discount, req.PaymentMethod, req.Notes); err != nil {
		return nil, err
	}

	rec, err := s.transport.Create(ctx, req)
	if err != nil {
		s.lg.Warn("Create sale failed", zap.Error(err))
		return nil, &TransportError{Op: "create sale", Err: err}
	}

	s.lg.Info("Sale created",
		zap.String("sale_id", rec.ID),
		zap.Int("items", len(req.Items)),
		zap.String("payment_method", string(req.PaymentMethod)),
	)
	return rec, nil
}

// List fetches one page of sales.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	page, err := s.transport.List(ctx, f)
	if err != nil {
		return nil, &TransportError{Op: "list sales", Err: err}
	}
	return page, nil
}

// Cancel cancels a completed sale. A sale already in CANCELADA is refused
// locally with ErrAlreadyCancelled; the API is not relied upon to reject it.
func (s *Service) Cancel(ctx context.Context, rec Record) error {
	if rec.Cancelled() {
		return ErrAlreadyCancelled
	}

	if err := s.transport.Cancel(ctx, rec.ID); err != nil {
		s.lg.Warn("Cancel sale failed", zap.String("sale_id", rec.ID), zap.Error(err))
		return &TransportError{Op: "cancel sale", Err: err}
	}

	s.lg.Info("Sale cancelled", zap.String("sale_id", rec.ID))
	return nil
}

// Receipt fetches the receipt of a sale. On failure no receipt is returned.
func (s *Service) Receipt(ctx context.Context, id string) (*Receipt, error) {
	r, err := s.transport.Receipt(ctx, id)
	if err != nil {
		return nil, &TransportError{Op: "get receipt", Err: err}
	}
	return r, nil
}
