package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// RateLimitConfig configures the sliding window limiter.
type RateLimitConfig struct {
	// Max requests per Window and key.
	Max    int
	Window time.Duration
	// KeyFunc defaults to the client IP.
	KeyFunc func(*http.Request) string
	// Match restricts limiting to the requests it accepts. Nil limits all
	// requests.
	Match func(*http.Request) bool
}

// window counts requests of one key in the current and previous fixed
// windows. The previous count is weighted by its overlap with the sliding
// window ending now.
type window struct {
	start time.Time
	curr  float64
	prev  float64
}

func (w *window) advance(now time.Time, size time.Duration) {
	elapsed := now.Sub(w.start)
	switch {
	case elapsed >= 2*size:
		w.prev, w.curr = 0, 0
		w.start = now.Truncate(size)
	case elapsed >= size:
		w.prev, w.curr = w.curr, 0
		w.start = w.start.Add(size)
	}
}

func (w *window) estimate(now time.Time, size time.Duration) float64 {
	overlap := 1 - now.Sub(w.start).Seconds()/size.Seconds()
	return w.prev*math.Max(overlap, 0) + w.curr
}

type limiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu   sync.Mutex
	keys map[string]*window
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	return &limiter{
		cfg:  cfg,
		now:  time.Now,
		keys: make(map[string]*window),
	}
}

// take records a request for key if it is within the limit. It returns the
// remaining budget and the end of the current window.
func (l *limiter) take(key string) (remaining int, reset time.Time, ok bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, found := l.keys[key]
	if !found {
		w = &window{start: now.Truncate(l.cfg.Window)}
		l.keys[key] = w
	}
	w.advance(now, l.cfg.Window)

	reset = w.start.Add(l.cfg.Window)
	used := w.estimate(now, l.cfg.Window)
	if used >= float64(l.cfg.Max) {
		return 0, reset, false
	}
	w.curr++
	return max(int(float64(l.cfg.Max)-used-1), 0), reset, true
}

// evict drops keys idle for two windows.
func (l *limiter) evict() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.keys {
		if now.Sub(w.start) >= 2*l.cfg.Window {
			delete(l.keys, key)
		}
	}
}

func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.cfg.Match != nil && !l.cfg.Match(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := l.cfg.KeyFunc(r)
		remaining, reset, ok := l.take(key)

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !ok {
			wait := max(reset.Sub(l.now()), 0)
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			zctx.From(r.Context()).Warn("Rate limited", zap.String("key", key), zap.String("path", r.URL.Path))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit limits requests per key. Idle keys are never evicted; use
// RateLimitWithCleanup for long-running servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return newLimiter(cfg).middleware
}

// RateLimitWithCleanup is RateLimit plus a goroutine evicting idle keys
// until ctx is done.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.evict()
			}
		}
	}()
	return l.middleware
}

// MatchRoute accepts requests with the given method and exact path.
func MatchRoute(method, path string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == method && r.URL.Path == path
	}
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
