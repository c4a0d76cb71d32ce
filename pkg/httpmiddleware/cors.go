package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access for a browser client.
type CORSConfig struct {
	// Origins allowed to call the API. Empty or "*" allows any origin.
	Origins []string
	// Methods defaults to GET, POST, PUT, DELETE, OPTIONS.
	Methods []string
	// Headers allowed on requests. Empty echoes the preflight request.
	Headers []string
	// Expose lists response headers readable by the browser.
	Expose []string
	// Credentials allows cookies. With credentials a wildcard origin is
	// answered with the caller's origin instead of "*".
	Credentials bool
	// MaxAge of a cached preflight in seconds. Zero omits the header.
	MaxAge int
}

type cors struct {
	any         bool
	origins     map[string]string
	methods     string
	headers     string
	expose      string
	credentials bool
	maxAge      string
}

func newCORS(cfg CORSConfig) *cors {
	c := &cors{
		any:         len(cfg.Origins) == 0,
		origins:     make(map[string]string, len(cfg.Origins)),
		methods:     strings.Join(cfg.Methods, ", "),
		headers:     strings.Join(cfg.Headers, ", "),
		expose:      strings.Join(cfg.Expose, ", "),
		credentials: cfg.Credentials,
	}
	for _, o := range cfg.Origins {
		if o == "*" {
			c.any = true
			continue
		}
		c.origins[strings.ToLower(o)] = o
	}
	if c.methods == "" {
		c.methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	if cfg.MaxAge > 0 {
		c.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return c
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is rejected.
func (c *cors) allowOrigin(origin string) string {
	switch {
	case c.any && c.credentials:
		return origin
	case c.any:
		return "*"
	}
	return c.origins[strings.ToLower(origin)]
}

// CORS answers preflight requests and decorates cross-origin responses.
// Responses vary on Origin whenever the allowed origin depends on it.
func CORS(cfg CORSConfig) Middleware {
	c := newCORS(cfg)
	varies := !c.any || c.credentials

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if varies {
				h.Add("Vary", "Origin")
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			allowed := c.allowOrigin(origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				if allowed != "" {
					h.Set("Access-Control-Allow-Origin", allowed)
					h.Set("Access-Control-Allow-Methods", c.methods)
					if c.headers != "" {
						h.Set("Access-Control-Allow-Headers", c.headers)
					} else if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
						h.Set("Access-Control-Allow-Headers", req)
					}
					if c.credentials {
						h.Set("Access-Control-Allow-Credentials", "true")
					}
					if c.maxAge != "" {
						h.Set("Access-Control-Max-Age", c.maxAge)
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowed != "" {
				h.Set("Access-Control-Allow-Origin", allowed)
				if c.credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if c.expose != "" {
					h.Set("Access-Control-Expose-Headers", c.expose)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
