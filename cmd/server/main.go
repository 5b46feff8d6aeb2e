package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/saod-ux/saas-project-sub000/internal"
	"github.com/saod-ux/saas-project-sub000/internal/docstore"
	"github.com/saod-ux/saas-project-sub000/internal/handler/api"
	"github.com/saod-ux/saas-project-sub000/internal/middleware"
	"github.com/saod-ux/saas-project-sub000/internal/postgres"
	"github.com/saod-ux/saas-project-sub000/internal/routes"
	"github.com/saod-ux/saas-project-sub000/internal/service"
	"github.com/saod-ux/saas-project-sub000/internal/telemetry"
	"github.com/saod-ux/saas-project-sub000/internal/tenant"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info().Msg("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info().Msg("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info().Msg("Migrations completed successfully")

	// The application itself talks to postgres through a pgx pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	db, err := postgres.New(pool)
	if err != nil {
		return err
	}
	dir := postgres.NewDirectory(db)
	logger.Info().Msg("Database connection established")

	// Document store for per-tenant customer records
	docs, err := docstore.Open(ctx, cfg.DocstorePath)
	if err != nil {
		return fmt.Errorf("document store initialization failed: %w", err)
	}
	defer docs.Close()
	customers := docstore.NewTenantUsers(docs)
	logger.Info().Str("path", cfg.DocstorePath).Msg("Document store opened")

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace, reg)
	business := telemetry.NewBusinessMetrics(cfg.MetricsNamespace, reg)

	// Tenant resolution
	resolver := tenant.NewCachedResolver(dir, tenant.CacheConfig{
		TTL:         cfg.TenantCache.TTL,
		NegativeTTL: cfg.TenantCache.NegativeTTL,
		Observer:    business,
	})

	// Tenant change events keep every replica's cache in step
	var publisher tenant.Publisher = tenant.NopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("storefront-server"))
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		defer nc.Drain()

		sub, err := tenant.Subscribe(nc, resolver, logger)
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()

		publisher = tenant.NewNATSPublisher(nc)
		logger.Info().Str("url", cfg.NatsURL).Msg("Tenant events enabled")
	} else {
		logger.Warn().Msg("NATS_URL not set, tenant cache invalidation is local only")
	}

	// Services
	tenantService := service.NewTenantService(dir, resolver, publisher, business)
	membershipService := service.NewMembershipService(db, dir)
	checker := service.NewRules(db, dir, business)

	var verifier middleware.Verifier = middleware.AnonymousVerifier{}
	if cfg.TrustUserHeader {
		verifier = middleware.HeaderVerifier{Users: dir}
		logger.Warn().Str("header", middleware.UserIDHeader).Msg("Trusting user header for authentication")
	}

	e := routes.New(routes.Deps{
		Logger:      logger,
		Prod:        cfg.Env == "prod",
		BaseDomain:  cfg.Domain.BaseDomain,
		Resolver:    resolver,
		Verifier:    verifier,
		Memberships: membershipService,
		Checker:     checker,
		HTTPMetrics: httpMetrics,
		Business:    business,
		Gatherer:    reg,
		Handlers: routes.Handlers{
			Products:   api.NewProductHandler(service.NewProductService(db, business)),
			Categories: api.NewCategoryHandler(service.NewCategoryService(db, business)),
			Orders:     api.NewOrderHandler(service.NewOrderService(db, customers, business)),
			Carts:      api.NewCartHandler(service.NewCartService(db, business)),
			Customers:  api.NewCustomerHandler(service.NewCustomerService(customers, dir)),
			Settings:   api.NewSettingsHandler(service.NewSettingsService(tenantService)),
			Members:    api.NewMemberHandler(membershipService),
			Tenants:    api.NewTenantHandler(tenantService),
			Health: api.NewHealthHandler(map[string]api.Pinger{
				"postgres": db,
				"docstore": docs,
			}),
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", addr).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
