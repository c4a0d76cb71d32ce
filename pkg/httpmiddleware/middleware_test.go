package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock implementations ---

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }
func (noopTelemetry) MeterProvider() metric.MeterProvider  { return noop.NewMeterProvider() }

// --- Tests ---

func TestWrap_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Wrap(okHandler(), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMakeRouteFinder(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("PUT /vendas/{id}/cancelar", okHandler())
	find := MakeRouteFinder(mux)

	assert.Equal(t, "PUT /vendas/{id}/cancelar", find(httptest.NewRequest(http.MethodPut, "/vendas/abc/cancelar", nil)))
	assert.Empty(t, find(httptest.NewRequest(http.MethodGet, "/nope", nil)))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36, "generated ids are UUIDs")
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 129))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, seen, 36, "oversized ids are replaced")

	assert.Empty(t, RequestIDFromContext(req.Context()))
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("a"))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("bad\nid"))
	assert.False(t, validRequestID(strings.Repeat("x", 129)))
}

func TestRecovery(t *testing.T) {
	h := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":500,"message":"internal error"}`, w.Body.String())
}

func TestRecovery_AbortHandler(t *testing.T) {
	h := Recovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /vendas/{id}/recibo", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	find := MakeRouteFinder(mux)

	h := Wrap(mux, InjectLogger(zap.New(core)), RequestID(), LogRequests(find))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/vendas/x/recibo", nil))

	entries := logs.FilterMessage("Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "GET /vendas/{id}/recibo", fields["route"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestInjectLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := InjectLogger(zap.New(core))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		zctx.From(r.Context()).Info("handled")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1, logs.FilterMessage("handled").Len())
}

func TestInstrument(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /produtos", okHandler())
	find := MakeRouteFinder(mux)

	h := Wrap(mux, Instrument("salon-api", find, noopTelemetry{}), Labeler(find))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/produtos", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         CORSConfig
		origin      string
		preflight   bool
		wantOrigin  string
		wantCreds   string
		wantCode    int
		wantMethods string
	}{
		{name: "wildcard", cfg: CORSConfig{}, origin: "http://a.test", wantOrigin: "*", wantCode: http.StatusOK},
		{name: "credentials echo origin", cfg: CORSConfig{Credentials: true}, origin: "http://a.test", wantOrigin: "http://a.test", wantCreds: "true", wantCode: http.StatusOK},
		{name: "listed origin case-insensitive", cfg: CORSConfig{Origins: []string{"http://App.test"}}, origin: "http://app.test", wantOrigin: "http://App.test", wantCode: http.StatusOK},
		{name: "unlisted origin", cfg: CORSConfig{Origins: []string{"http://app.test"}}, origin: "http://evil.test", wantCode: http.StatusOK},
		{name: "preflight", cfg: CORSConfig{Origins: []string{"http://app.test"}}, origin: "http://app.test", preflight: true, wantOrigin: "http://app.test", wantCode: http.StatusNoContent, wantMethods: "GET, POST, PUT, DELETE, OPTIONS"},
		{name: "rejected preflight", cfg: CORSConfig{Origins: []string{"http://app.test"}}, origin: "http://evil.test", preflight: true, wantCode: http.StatusNoContent},
		{name: "no origin", cfg: CORSConfig{}, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(tt.cfg)(okHandler())
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/vendas", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCreds, w.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.wantMethods, w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, http.StatusTooManyRequests, "slow down")

	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 429, body.Status)
	assert.Equal(t, "slow down", body.Message)
}
