// Package handler serves the salon HTTP API.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/auth"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Sales is the server-side sale workflow.
type Sales interface {
	Record(ctx context.Context, req sale.Request) (*ledger.Entry, error)
	List(ctx context.Context, f sale.Filter) (*sale.Page, error)
	Cancel(ctx context.Context, id string) error
	Receipt(ctx context.Context, id string) (*sale.Receipt, error)
}

// Sessions authenticates operators.
type Sessions interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// RequireAuth guards catalog and sale routes with a session.
	RequireAuth bool
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
}

// Handler implements the salon REST API.
type Handler struct {
	catalog  catalog.Source
	sales    Sales
	sessions Sessions
	cfg      Config
}

// New constructs a Handler. sessions may be nil when RequireAuth is off, in
// which case the /auth routes are not registered.
func New(cfg Config, cat catalog.Source, sales Sales, sessions Sessions) *Handler {
	return &Handler{
		catalog:  cat,
		sales:    sales,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Routes returns the API multiplexer.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	guard := func(fn http.HandlerFunc) http.Handler {
		if h.cfg.RequireAuth && h.sessions != nil {
			return h.RequireSession(fn)
		}
		return fn
	}

	mux.Handle("GET /produtos", guard(h.listProducts))
	mux.Handle("GET /servicos", guard(h.listServices))
	mux.Handle("POST /vendas", guard(h.createSale))
	mux.Handle("GET /vendas", guard(h.listSales))
	mux.Handle("PUT /vendas/{id}/cancelar", guard(h.cancelSale))
	mux.Handle("GET /vendas/{id}/recibo", guard(h.receipt))

	if h.sessions != nil {
		mux.HandleFunc("POST "+PathLogin, h.login)
		mux.Handle("GET "+PathValidate, h.RequireSession(http.HandlerFunc(h.validate)))
		mux.HandleFunc("POST "+PathLogout, h.logout)
	}
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, wire.EncodeError(status, message))
}

// internalError logs err with the request-scoped logger and hides it from
// the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	return body, true
}
