package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config is the salon-api server configuration, loadable from environment
// variables (SALON_API_ prefix), flags or YAML files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (SALON_API_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Pepper      string `usage:"HMAC pepper for password and session hashing" flag:"pepper"`
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// AuthConfig controls operator sessions.
type AuthConfig struct {
	Required     bool          `default:"false" usage:"Require a session on catalog and sale routes" flag:"auth-required"`
	SessionTTL   time.Duration `default:"8h" usage:"Session lifetime" flag:"session-ttl"`
	SecureCookie bool          `default:"false" usage:"Mark the session cookie Secure" flag:"secure-cookie"`
}

// RateLimitConfig throttles login attempts per client IP.
type RateLimitConfig struct {
	Max    int           `default:"10" usage:"Max login attempts per window"`
	Window time.Duration `default:"1m" usage:"Login throttle window"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads the server configuration and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SALON_API",
		Files:     []string{"config.yaml", "/etc/salon/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set SALON_API_DATABASE_URL or DATABASE_URL")
	}
	if cfg.Auth.Required && cfg.Pepper == "" {
		return nil, errors.New("pepper is required when auth is enabled: set SALON_API_PEPPER")
	}
	return &cfg, nil
}

// applyPlatformDefaults honours the DATABASE_URL and PORT variables set by
// hosting platforms.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

// ClientConfig is the salonctl configuration (SALON_ prefix).
type ClientConfig struct {
	BaseURL   string `default:"http://localhost:8080" usage:"Salon API base URL" flag:"base-url"`
	Token     string `usage:"Bearer token sent with every request" flag:"token"`
	TokenFile string `usage:"File the login command stores the token in" flag:"token-file"`
	Debug     bool   `default:"false" usage:"Log HTTP requests" flag:"debug"`
}

// DefaultTokenFile is $HOME/.config/salonctl/token.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".salonctl-token"
	}
	return filepath.Join(dir, "salonctl", "token")
}

// LoadClientConfig loads the salonctl configuration. The stored token is
// read when no explicit token is configured.
func LoadClientConfig() (*ClientConfig, error) {
	files := []string{"salonctl.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "salonctl", "config.yaml"))
	}

	var cfg ClientConfig
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SALON",
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}
	if cfg.Token == "" {
		b, err := os.ReadFile(cfg.TokenFile)
		switch {
		case err == nil:
			cfg.Token = strings.TrimSpace(string(b))
		case !errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrap(err, "read token file")
		}
	}
	return &cfg, nil
}

// SaveToken writes token to the configured token file, creating parent
// directories. An empty token removes the file.
func (c *ClientConfig) SaveToken(token string) error {
	if token == "" {
		if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrap(err, "remove token file")
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return errors.Wrap(err, "create token dir")
	}
	if err := os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write token file")
	}
	return nil
}
