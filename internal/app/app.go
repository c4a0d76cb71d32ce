// Package app wires the salon-api server and loads the configuration of
// both binaries.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/auth"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"
	"github.com/JamersonCarlos/beauty-salon-web/internal/handler"
	"github.com/JamersonCarlos/beauty-salon-web/internal/storage/postgres"
	"github.com/JamersonCarlos/beauty-salon-web/pkg/health"
	"github.com/JamersonCarlos/beauty-salon-web/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.Bool("auth", cfg.Auth.Required))

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	authRepo := postgres.NewAuthRepository(pool)
	go purgeSessions(ctx, lg, authRepo, time.Hour)

	h, err := NewHandler(ctx, cfg, pool, healthSvc, m)
	if err != nil {
		return err
	}

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           h,
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// NewHandler builds the API routes over pool, mounts the probes of hs and
// wraps everything in the middleware chain. The request logger is taken from
// ctx.
func NewHandler(ctx context.Context, cfg *Config, pool *pgxpool.Pool, hs *health.Health, t httpmiddleware.Telemetry) (http.Handler, error) {
	catalogRepo := postgres.NewCatalogRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	authRepo := postgres.NewAuthRepository(pool)

	ledgerSvc, err := ledger.NewService(catalogRepo, saleRepo, ledger.WithMeterProvider(t.MeterProvider()))
	if err != nil {
		return nil, errors.Wrap(err, "create ledger")
	}
	sessions := auth.NewService(authRepo, []byte(cfg.Pepper), cfg.Auth.SessionTTL)

	h := handler.New(handler.Config{
		RequireAuth:  cfg.Auth.Required,
		SecureCookie: cfg.Auth.SecureCookie,
	}, catalogRepo, ledgerSvc, sessions)

	mux := h.Routes()
	hs.Mount(mux)
	find := httpmiddleware.MakeRouteFinder(mux)

	return httpmiddleware.Wrap(mux,
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.Recovery(),
		httpmiddleware.Instrument("salon-api", find, t),
		httpmiddleware.Labeler(find),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(find),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			Origins:     cfg.CORS.Origins,
			Headers:     []string{"Content-Type", "Authorization", httpmiddleware.HeaderRequestID},
			Expose:      []string{httpmiddleware.HeaderRequestID},
			Credentials: cfg.CORS.AllowCredentials,
			MaxAge:      86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
			Match:  httpmiddleware.MatchRoute(http.MethodPost, handler.PathLogin),
		}),
	), nil
}

// purgeSessions deletes expired sessions every interval until ctx is done.
func purgeSessions(ctx context.Context, lg *zap.Logger, repo *postgres.AuthRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				lg.Warn("Purge sessions failed", zap.Error(err))
				continue
			}
			if n > 0 {
				lg.Info("Purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
