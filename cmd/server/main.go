package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/agencydesk/creditledger/internal/adapter/http"
	"github.com/agencydesk/creditledger/internal/adapter/http/handler"
	"github.com/agencydesk/creditledger/internal/adapter/http/middleware"
	postgresRepo "github.com/agencydesk/creditledger/internal/adapter/repository/postgres"
	redisRepo "github.com/agencydesk/creditledger/internal/adapter/repository/redis"
	"github.com/agencydesk/creditledger/internal/infrastructure/access"
	"github.com/agencydesk/creditledger/internal/infrastructure/auth"
	"github.com/agencydesk/creditledger/internal/infrastructure/config"
	"github.com/agencydesk/creditledger/internal/infrastructure/eventpublisher"
	"github.com/agencydesk/creditledger/internal/infrastructure/logger"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
	"github.com/agencydesk/creditledger/internal/infrastructure/postgres"
	"github.com/agencydesk/creditledger/internal/infrastructure/redis"
	"github.com/agencydesk/creditledger/internal/usecase"
)

const (
	tokenDuration       = 12 * time.Hour
	limiterCleanupEvery = 5 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	if err := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, logger).Up(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewCreditAccountRepository(pool)
	entryRepo := postgresRepo.NewCreditEntryRepository(pool)
	receiptRepo := postgresRepo.NewReceiptRepository(pool)
	paymentMethodRepo := postgresRepo.NewPaymentMethodRepository(pool)
	clientPaymentRepo := postgresRepo.NewClientPaymentRepository()
	auditRepo := postgresRepo.NewPaymentAuditRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(logger)

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, idGen).
		WithRetrier(retrier).
		WithCache(cache, cfg.BalanceCacheTTL).
		WithMetrics(m).
		WithLogger(logger)
	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, entryRepo, outboxRepo, idGen).
		WithRetrier(retrier).
		WithTransactionTimeout(cfg.TransactionTimeout).
		WithCache(cache, cfg.BalanceCacheTTL).
		WithMetrics(m).
		WithLogger(logger).
		WithDisabledAccountPolicy(cfg.AllowPostingToDisabled)
	reversalUC := usecase.NewReversalUseCase(txManager, accountRepo, entryRepo, outboxRepo, idGen).
		WithRetrier(retrier).
		WithTransactionTimeout(cfg.TransactionTimeout).
		WithCache(cache, cfg.BalanceCacheTTL).
		WithMetrics(m).
		WithLogger(logger)
	entryUC := usecase.NewEntryUseCase(accountRepo, entryRepo, postingUC, reversalUC)
	receiptUC := usecase.NewReceiptUseCase(
		txManager, receiptRepo, paymentMethodRepo, clientPaymentRepo,
		auditRepo, outboxRepo, postingUC, reversalUC, idGen,
	).
		WithRetrier(retrier).
		WithTransactionTimeout(cfg.TransactionTimeout).
		WithMetrics(m).
		WithLogger(logger)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo).
		WithMetrics(m).
		WithLogger(logger)

	// Authentication
	var resolver usecase.PrincipalResolver
	if cfg.AuthEnabled {
		resolver = auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	} else {
		logger.Warn().Msg("token authentication disabled, trusting principal headers")
	}
	authMiddleware := middleware.NewAuth(resolver, access.NewStaticPolicy(access.DefaultGrants), m)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	// Outbox publisher
	sink, closeSink, err := newEventSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  sink,
		Logger:     logger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})
	go publisher.Start(ctx)
	go cleanupLimiters(ctx, rateLimiter, logger)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountUC),
		EntryHandler:   handler.NewEntryHandler(entryUC),
		ReceiptHandler: handler.NewReceiptHandler(receiptUC),
		LedgerHandler:  handler.NewLedgerHandler(reconciliationUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis":    handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		}),
		Auth:             authMiddleware,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// newEventSink picks Kafka when brokers are configured and the log otherwise.
func newEventSink(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info().Msg("no kafka brokers configured, outbox events go to the log")
		return eventpublisher.NewLogPublisher(logger), func() {}, nil
	}

	kp, err := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	closeFn := func() {
		if err := kp.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close kafka publisher")
		}
	}
	return kp, closeFn, nil
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, logger zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.CleanupLimiters(limiterCleanupEvery); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("dropped idle rate limiters")
			}
		}
	}
}
