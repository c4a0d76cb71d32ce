// Package checkout implements the sale-creation session: catalog lookup by
// typed code or manual pick, the cart, and a single guarded submission.
package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/cart"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission of the same session has not finished.
	ErrSubmitInFlight = errors.New("sale submission already in progress")
	// ErrClosed is returned by Submit after the session created its sale.
	ErrClosed = errors.New("checkout session closed")
)

// Submitter creates sales. *sale.Service satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req sale.Request) (*sale.Record, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(lg *zap.Logger) Option {
	return func(s *Session) {
		s.lg = lg
	}
}

// WithIDGenerator sets the generator for cart line identifiers.
func WithIDGenerator(g cart.IDGenerator) Option {
	return func(s *Session) {
		s.cartOpts = append(s.cartOpts, cart.WithIDGenerator(g))
	}
}

// Session is one sale-creation dialog. The catalog snapshot is loaded once
// when the session opens and is not refreshed.
type Session struct {
	snapshot *catalog.Snapshot
	svc      Submitter
	lg       *zap.Logger
	cartOpts []cart.Option

	mu        sync.Mutex
	kind      catalog.Kind
	token     string
	selection string
	cart      *cart.Cart
	closed    bool

	submitting atomic.Bool
}

// Open fetches the catalog and starts a session. Kind defaults to service.
func Open(ctx context.Context, src catalog.Source, svc Submitter, opts ...Option) (*Session, error) {
	snap, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return New(snap, svc, opts...), nil
}

// New starts a session over an already loaded snapshot.
func New(snap *catalog.Snapshot, svc Submitter, opts ...Option) *Session {
	s := &Session{
		snapshot: snap,
		svc:      svc,
		lg:       zap.NewNop(),
		kind:     catalog.KindService,
	}
	for _, o := range opts {
		o(s)
	}
	s.cart = cart.New(s.cartOpts...)
	return s
}

// Snapshot is the catalog the session resolves against.
func (s *Session) Snapshot() *catalog.Snapshot {
	return s.snapshot
}

// Kind is the catalog variant currently being looked up.
func (s *Session) Kind() catalog.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// Token is the lookup text as last entered.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Selection is the key of the selected catalog item, or "".
func (s *Session) Selection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Selected returns the selected catalog item, if it still exists.
func (s *Session) Selected() (catalog.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == "" {
		return nil, false
	}
	return s.snapshot.Find(s.kind, s.selection)
}

// Options lists the items of the current kind for manual picking.
func (s *Session) Options() []catalog.Item {
	return s.snapshot.Options(s.Kind())
}

// SetKind switches the lookup variant. Selection and token are cleared even
// when kind is unchanged.
func (s *Session) SetKind(kind catalog.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
	s.selection = ""
	s.token = ""
}

// EnterToken stores the typed lookup text. A token that resolves replaces
// the selection; an empty or unmatched token leaves it untouched.
func (s *Session) EnterToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	key, ok := s.snapshot.Resolve(s.kind, token)
	if ok {
		s.selection = key
	}
	return ok
}

// Select picks an item by key and clears the lookup token.
func (s *Session) Select(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = key
	s.token = ""
}

// AddSelected adds the selected item as a new cart line. Without a selection,
// or when the selected key no longer exists in the snapshot, nothing happens.
// On success both selection and token are cleared.
func (s *Session) AddSelected() (cart.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == "" {
		return cart.LineItem{}, false
	}
	item, ok := s.snapshot.Find(s.kind, s.selection)
	if !ok {
		return cart.LineItem{}, false
	}
	line := s.cart.Add(item)
	s.selection = ""
	s.token = ""
	return line, true
}

// Remove deletes a cart line by ephemeral id.
func (s *Session) Remove(ephemeralID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(ephemeralID)
}

// SetDiscount stores the discount text; malformed input counts as zero.
func (s *Session) SetDiscount(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetDiscountText(text)
}

// SetPaymentMethod selects how the customer pays.
func (s *Session) SetPaymentMethod(m sale.PaymentMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.PaymentMethod = m
}

// SetNotes stores the free-text observations.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Notes = notes
}

// Lines returns the cart lines in insertion order.
func (s *Session) Lines() []cart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// Totals returns the cart totals.
func (s *Session) Totals() cart.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// Closed reports whether the session already created its sale.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Submit sends the cart as a new sale. Only one submission runs at a time;
// a concurrent call gets ErrSubmitInFlight. On failure the cart is kept as
// it was. On success the cart is cleared and the session closes.
func (s *Session) Submit(ctx context.Context) (*sale.Record, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	req, err := s.cart.Request()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rec, err := s.svc.Submit(ctx, req)
	if err != nil {
		s.lg.Debug("Submit failed, keeping cart", zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.cart.Clear()
	s.selection = ""
	s.token = ""
	s.closed = true
	s.mu.Unlock()

	return rec, nil
}
