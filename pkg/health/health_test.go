package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

type report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passing() CheckFunc {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func probe(t *testing.T, fn http.HandlerFunc) (int, report) {
	t.Helper()
	w := httptest.NewRecorder()
	fn(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var r report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return w.Code, r
}

func runN(s *state, n int) {
	for range n {
		s.run(context.Background())
	}
}

// --- Tests ---

func TestLiveEndpoint(t *testing.T) {
	h := New()
	h.AddLivenessCheck("a", time.Second, passing())
	h.AddLivenessCheck("db", time.Second, failing("connection refused"))

	code, r := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code, "checks start healthy")
	assert.Equal(t, "ok", r.Status)
	assert.Empty(t, r.Checks)

	runN(h.checks[1], 2)
	code, _ = probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code, "below the failure threshold")

	runN(h.checks[1], 1)
	code, r = probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", r.Status)
	assert.Equal(t, map[string]string{"db": "connection refused"}, r.Checks)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		failing    bool
		wantCode   int
		wantChecks []string
	}{
		{name: "ready and passing", ready: true, wantCode: http.StatusOK},
		{name: "not ready", ready: false, wantCode: http.StatusServiceUnavailable, wantChecks: []string{"_readiness"}},
		{name: "ready but failing", ready: true, failing: true, wantCode: http.StatusServiceUnavailable, wantChecks: []string{"postgres"}},
		{name: "neither", failing: true, wantCode: http.StatusServiceUnavailable, wantChecks: []string{"_readiness", "postgres"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			fn := passing()
			if tt.failing {
				fn = failing("down")
			}
			h.AddReadinessCheck("postgres", time.Second, fn)
			h.AddLivenessCheck("live", time.Second, failing("ignored"))
			h.SetReady(tt.ready)
			for _, s := range h.checks {
				runN(s, 3)
			}

			code, r := probe(t, h.ReadyEndpoint)
			assert.Equal(t, tt.wantCode, code)
			var names []string
			for name := range r.Checks {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tt.wantChecks, names)
			assert.Equal(t, tt.wantCode == http.StatusOK, h.IsReady())
		})
	}
}

func TestRegister_Defaults(t *testing.T) {
	h := New()
	h.Register(Check{Name: "x", Func: passing()})

	s := h.checks[0]
	assert.Equal(t, 3, s.FailureThreshold)
	assert.Equal(t, 1, s.SuccessThreshold)
	assert.Equal(t, time.Second, s.Timeout)
	assert.Equal(t, Liveness, s.Probe)
}

func TestRegister_CustomThresholds(t *testing.T) {
	down := true
	h := New()
	h.Register(Check{
		Name:             "flaky",
		Probe:            Readiness,
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Func: func(_ context.Context) error {
			if down {
				return errors.New("down")
			}
			return nil
		},
	})
	s := h.checks[0]

	runN(s, 1)
	assert.False(t, s.healthy.Load())

	down = false
	runN(s, 1)
	assert.False(t, s.healthy.Load(), "one pass is not enough")
	runN(s, 1)
	assert.True(t, s.healthy.Load())
}

func TestLastError(t *testing.T) {
	h := New()
	h.AddLivenessCheck("db", time.Second, failing("timeout"))
	s := h.checks[0]

	assert.Nil(t, s.err())
	runN(s, 1)
	assert.EqualError(t, s.err(), "timeout")
}

func TestCheckTimeout(t *testing.T) {
	h := New()
	h.AddReadinessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	s := h.checks[0]
	runN(s, 1)
	assert.ErrorIs(t, s.err(), context.DeadlineExceeded)
}

func TestMount(t *testing.T) {
	h := New()
	h.SetReady(true)
	mux := http.NewServeMux()
	h.Mount(mux)

	for _, path := range []string{"/livez", "/readyz"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestStartStop(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	h := New()
	h.AddLivenessCheck("count", time.Second, func(_ context.Context) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	h.Start(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)
	h.Stop()
	h.Stop()
}

func TestConcurrentAccess(t *testing.T) {
	h := New()
	h.AddLivenessCheck("l", time.Second, failing("err"))
	h.AddReadinessCheck("r", time.Second, passing())
	h.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, time.Millisecond)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				h.IsReady()
				h.LiveEndpoint(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez", nil))
				h.ReadyEndpoint(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))
			}
		}()
	}
	wg.Wait()
	h.Stop()
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckers(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")

	assert.NoError(t, PingCheck(pinger{})(context.Background()))
	assert.ErrorContains(t, PingCheck(pinger{err: errors.New("refused")})(context.Background()), "ping: refused")
}

func TestPingCheck_Readiness(t *testing.T) {
	h := New()
	h.AddReadinessCheck("postgres", time.Second, PingCheck(pinger{}))
	h.SetReady(true)
	runN(h.checks[0], 3)

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, h.checks[0].err())
	assert.True(t, h.IsReady())
}
