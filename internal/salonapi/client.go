// Package salonapi is the HTTP client of the salon back office API.
package salonapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Session endpoints. A 401 from these is returned as-is and does not end the
// session.
const (
	PathLogin    = "/auth/login"
	PathValidate = "/auth/validate"
	PathLogout   = "/auth/logout"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client. The caller is
// responsible for its transport and cookie jar.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the client logger.
func WithLogger(lg *zap.Logger) Option {
	return func(c *Client) {
		c.lg = lg
	}
}

// WithTelemetry sets the providers used by the default transport.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(c *Client) {
		c.tp, c.mp = tp, mp
	}
}

// WithOnSessionExpired registers a hook run after a 401 ended the session.
func WithOnSessionExpired(fn func()) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// Client talks to the API. It holds the session cookie and optional bearer
// token and is safe for concurrent use. Requests are never retried and have
// no deadline other than the caller's context.
type Client struct {
	base      *url.URL
	http      *http.Client
	lg        *zap.Logger
	tp        trace.TracerProvider
	mp        metric.MeterProvider
	onExpired func()

	mu    sync.RWMutex
	token string
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		base: u,
		lg:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}

	if c.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "cookie jar")
		}
		var topts []otelhttp.Option
		if c.tp != nil {
			topts = append(topts, otelhttp.WithTracerProvider(c.tp))
		}
		if c.mp != nil {
			topts = append(topts, otelhttp.WithMeterProvider(c.mp))
		}
		c.http = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport, topts...),
			Jar:       jar,
		}
	}

	return c, nil
}

// Token is the current bearer token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

// do sends r and returns the body of a 2xx response. A 401 on any path
// other than the session endpoints ends the session first.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	code, body, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if code >= 200 && code < 300 {
		return body, nil
	}

	serr := &StatusError{Code: code, Message: decodeMessage(body)}
	if code == http.StatusUnauthorized && r.path != PathLogout && r.path != PathValidate && r.path != PathLogin {
		c.expire(ctx)
	}
	return nil, serr
}

// expire notifies the server best-effort and drops local credentials.
func (c *Client) expire(ctx context.Context) {
	c.lg.Info("Session expired, logging out")
	if _, _, err := c.send(ctx, request{method: http.MethodPost, path: PathLogout}); err != nil {
		c.lg.Debug("Logout after 401 failed", zap.Error(err))
	}
	c.setToken("")
	if c.onExpired != nil {
		c.onExpired()
	}
}

func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	u := *c.base
	u.Path = c.base.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "%s %s", r.method, r.path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response")
	}

	c.lg.Debug("API request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.StatusCode, data, nil
}
