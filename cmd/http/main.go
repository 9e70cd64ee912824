package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"fsanano/glacierfarm/internal/auth"
	"fsanano/glacierfarm/internal/config"
	"fsanano/glacierfarm/internal/handler"
	"fsanano/glacierfarm/internal/logging"
	"fsanano/glacierfarm/internal/messaging"
	"fsanano/glacierfarm/internal/messaging/kafka"
	"fsanano/glacierfarm/internal/metrics"
	"fsanano/glacierfarm/internal/repository"
	"fsanano/glacierfarm/internal/repository/memory"
	"fsanano/glacierfarm/internal/service"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}
	logger.Info("server exiting")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	// 2. Setup storage
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Setup Logic
	m := metrics.New()
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	orderOpts := []service.OrderOption{
		service.WithRecorder(m),
		service.WithVerifyTotal(cfg.OrderVerifyTotal),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		broker := kafka.NewKafkaBroker(cfg.Kafka.Brokers)
		defer broker.Close()
		orderOpts = append(orderOpts, service.WithPublisher(messaging.NewOrderEvents(broker, cfg.Kafka.OrdersTopic)))
		logger.WithField("topic", cfg.Kafka.OrdersTopic).Info("publishing order events to kafka")
	}

	h := handler.NewHandler(
		service.NewAuthService(store, tokens, logger),
		service.NewCatalogService(store, logger),
		service.NewOrderService(store, logger, orderOpts...),
		service.NewStorageService(store),
		logger,
		handler.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AuthRateLimit:  rate.Limit(cfg.Auth.RateLimit),
			AuthRateBurst:  cfg.Auth.RateBurst,
			Metrics:        m,
		},
	)

	// 4. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Run Server with Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("port", cfg.ServerPort).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects to PostgreSQL, or falls back to the in-process store
// when no DATABASE_URL is configured.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (service.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		return memory.New(), func() {}, nil
	}

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	logger.Info("connected to database")

	store := repository.NewStore(dbPool)
	if cfg.MigrateOnStart {
		if err := store.Migrate(ctx, logger); err != nil {
			dbPool.Close()
			return nil, nil, err
		}
	}
	return store, dbPool.Close, nil
}
