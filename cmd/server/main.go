package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/boutiquepos/backend/internal/application/catalog"
	customerapp "github.com/boutiquepos/backend/internal/application/customer"
	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/infrastructure/cache"
	"github.com/boutiquepos/backend/internal/infrastructure/config"
	"github.com/boutiquepos/backend/internal/infrastructure/logger"
	"github.com/boutiquepos/backend/internal/infrastructure/persistence"
	"github.com/boutiquepos/backend/internal/interfaces/http/handler"
	"github.com/boutiquepos/backend/internal/interfaces/http/middleware"
	"github.com/boutiquepos/backend/internal/interfaces/http/router"
)

// maxBodyBytes caps request bodies; carts and settlements are small
const maxBodyBytes = 1 << 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server failed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	taxRate, err := cfg.Settlement.ParseTaxRate()
	if err != nil {
		return err
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	saleRepo := persistence.NewGormSaleRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	idempotencyStore := buildIdempotencyStore(cfg, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Warn("closing idempotency store", zap.Error(err))
		}
	}()

	checkoutService := salesapp.NewCheckoutService(saleRepo, customerRepo, productRepo, taxRate)
	settlementService := salesapp.NewSettlementService(saleRepo, customerRepo, idempotencyStore, cfg.Settlement.IdempotencyTTL)
	saleService := salesapp.NewSaleService(saleRepo)
	customerService := customerapp.NewCustomerService(customerRepo)
	productService := catalogapp.NewProductService(productRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("setting trusted proxies: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(&cfg.HTTP),
		middleware.BodyLimit(maxBodyBytes),
	)

	r := router.NewRouter(engine)
	r.RegisterSystem(handler.NewSystemHandler(cfg.App.Name, cfg.App.Env, db))
	r.Register(handler.NewCheckoutHandler(checkoutService))
	r.Register(handler.NewSaleHandler(saleService))
	r.Register(handler.NewSettlementHandler(settlementService))
	r.Register(handler.NewCustomerHandler(customerService))
	r.Register(handler.NewProductHandler(productService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}

// buildIdempotencyStore wires the settlement idempotency store. Redis is
// preferred when enabled; otherwise, or when Redis is unreachable, the
// in-memory store keeps a single instance safe.
func buildIdempotencyStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	factory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	if !cfg.Redis.Enabled {
		return factory.CreateInMemoryStore()
	}
	store, err := factory.CreateStore()
	if err != nil {
		log.Warn("idempotency store fallback", zap.Error(err))
		return factory.CreateInMemoryStore()
	}
	return store
}
