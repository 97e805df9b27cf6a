package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/danupra/hrisgo/internal/auth"
	"github.com/danupra/hrisgo/internal/config"
	"github.com/danupra/hrisgo/internal/event"
	handler "github.com/danupra/hrisgo/internal/handler/http"
	"github.com/danupra/hrisgo/internal/repository"
	"github.com/danupra/hrisgo/internal/repository/postgres"
	redisrepo "github.com/danupra/hrisgo/internal/repository/redis"
	"github.com/danupra/hrisgo/internal/service"
	"github.com/danupra/hrisgo/migrations"
	"github.com/danupra/hrisgo/pkg/database"
	"github.com/danupra/hrisgo/pkg/health"
	pkgkafka "github.com/danupra/hrisgo/pkg/kafka"
)

// App wires together all dependencies and runs the HRIS service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	codec := auth.NewTokenCodec(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)

	// Refresh token store backend. Redis gives each token a TTL matching
	// its signed expiry; the Postgres store keeps tokens alongside the
	// rest of the schema.
	var (
		tokenRepo   repository.RefreshTokenRepository
		redisClient *goredis.Client
	)
	switch cfg.TokenStore {
	case config.TokenStoreRedis:
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
		tokenRepo = redisrepo.NewRefreshTokenRepository(redisClient, codec.RefreshExpiry())
	default:
		tokenRepo = postgres.NewRefreshTokenRepository(pool)
	}

	// Build the dependency graph.
	userRepo := postgres.NewUserRepository(pool)
	pegawaiRepo := postgres.NewPegawaiRepository(pool)
	pekerjaRepo := postgres.NewPekerjaRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	svcs := handler.Services{
		Sessions:  service.NewSessionService(userRepo, tokenRepo, codec, eventProducer, cfg.DefaultRoleID, logger),
		Users:     service.NewUserService(userRepo, tokenRepo, eventProducer, logger),
		Pegawai:   service.NewPegawaiService(pegawaiRepo, logger),
		Pekerja:   service.NewPekerjaService(pekerjaRepo, logger),
		Companies: service.NewCompanyService(companyRepo, logger),
	}

	// Health checks. Postgres always backs the primary schema; Redis is
	// critical only when it holds the sessions.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handler.NewRouter(cfg, svcs, codec, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer
// 3. Redis client, when the token store uses one
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
