package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/documents"
	"hrrecords/internal/domain/leave"
	"hrrecords/internal/domain/spreadsheet"
	"hrrecords/internal/domain/statistics"
	"hrrecords/internal/platform/config"
	cryptoutil "hrrecords/internal/platform/crypto"
	"hrrecords/internal/platform/db"
	"hrrecords/internal/platform/metrics"
	"hrrecords/internal/transport/http/api"
	attendancehandler "hrrecords/internal/transport/http/handlers/attendance"
	audithandler "hrrecords/internal/transport/http/handlers/audit"
	authhandler "hrrecords/internal/transport/http/handlers/auth"
	corehandler "hrrecords/internal/transport/http/handlers/core"
	documentshandler "hrrecords/internal/transport/http/handlers/documents"
	leavehandler "hrrecords/internal/transport/http/handlers/leave"
	spreadsheethandler "hrrecords/internal/transport/http/handlers/spreadsheet"
	statisticshandler "hrrecords/internal/transport/http/handlers/statistics"
	"hrrecords/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *db.Pool
	Metrics *metrics.Collector
	Router  http.Handler
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// New connects to the database, prepares the schema and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	var authService *auth.Service
	if cfg.AuthEnabled {
		authService, err = auth.NewService(cfg.OperatorEmail, cfg.OperatorPassword, cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("auth: %w", err)
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	app := &App{Config: cfg, DB: pool, Metrics: collector}
	app.Router = app.routes(crypto, authService)
	return app, nil
}

func (a *App) routes(crypto *cryptoutil.Service, authService *auth.Service) http.Handler {
	cfg := a.Config
	pool := a.DB

	coreStore := core.NewStore(pool, crypto)
	employees := core.NewService(coreStore)
	auditService := audit.New(pool)
	importer := spreadsheet.NewImporter(spreadsheet.NewPgBatches(pool, coreStore), cfg.ImportErrorLimit)

	authHandler := authhandler.NewHandler(authService)
	domainHandlers := []interface{ RegisterRoutes(chi.Router) }{
		corehandler.NewHandler(employees, auditService),
		spreadsheethandler.NewHandler(employees, importer, auditService, a.Metrics, cfg.MaxUploadBytes),
		leavehandler.NewHandler(leave.NewService(leave.NewStore(pool))),
		attendancehandler.NewHandler(attendance.NewService(attendance.NewStore(pool), cfg.WorkdayStart)),
		documentshandler.NewHandler(documents.NewService(documents.NewStore(pool), employees, documents.Renderer{FontPath: cfg.PDFFontPath})),
		statisticshandler.NewHandler(statistics.NewService(statistics.NewStore(pool))),
		audithandler.NewHandler(auditService),
	}

	secret := ""
	if cfg.AuthEnabled {
		secret = cfg.JWTSecret
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(secret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveRateLimit(max(cfg.RateLimitPerMinute/4, 1), cfg.ImportRateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database not ready", middleware.GetRequestID(r.Context()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot())
		})
	}

	mount := func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled {
				r.Use(middleware.RequireOperator)
			}
			for _, h := range domainHandlers {
				h.RegisterRoutes(r)
			}
		})
	}
	router.Route("/api", mount)
	router.Group(mount)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
	})
	return router
}

// Run loads configuration from the environment and serves until SIGINT or
// SIGTERM.
func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "err", err)
		}
	}()

	slog.Info("hr records server listening", "addr", cfg.Addr, "env", cfg.Environment, "auth", cfg.AuthEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
