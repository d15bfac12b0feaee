package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/auth"
	c "github.com/shahadat84sh/khamar-to-kitchen-server/internal/cache"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/config"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/events"
	h "github.com/shahadat84sh/khamar-to-kitchen-server/internal/http"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/logger"
	"github.com/shahadat84sh/khamar-to-kitchen-server/internal/repository"
	s "github.com/shahadat84sh/khamar-to-kitchen-server/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx := context.Background()

	// Set up MongoDB connection
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	mongoDB, err := repository.ConnectMongoDB(connectCtx, cfg.DatabaseURI(), cfg.DBName)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			lg.Warn("Mongo disconnect failed", zap.Error(err))
		}
	}()
	lg.Info("Connected to MongoDB", zap.String("database", cfg.DBName))

	if err := repository.EnsureIndexes(ctx, mongoDB, lg); err != nil {
		return err
	}

	cache, closeCache := setupCache(ctx, cfg, lg)
	defer closeCache()

	publisher := setupPublisher(cfg, lg)
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Warn("Publisher close failed", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	users := s.NewUserService(repository.NewUserRepository(mongoDB), tokens)
	catalog := s.NewCatalogService(repository.NewCatalogRepository(mongoDB))
	cart := s.NewCartService(repository.NewCartRepository(mongoDB), cache, lg)
	orders := s.NewOrderService(repository.NewOrderRepository(mongoDB), publisher, lg)

	router := h.NewRouter(
		h.RouterConfig{
			AllowedOrigins: cfg.CORSOrigins,
			RequestTimeout: cfg.RequestTimeout,
		},
		h.Handlers{
			Guard:   h.NewGuard(tokens, lg),
			Auth:    h.NewAuthHandler(users, lg),
			Users:   h.NewUserHandler(users, lg),
			Catalog: h.NewCatalogHandler(catalog, lg),
			Cart:    h.NewCartHandler(cart, lg),
			Orders:  h.NewOrdersHandler(orders, lg),
			Health: func(ctx context.Context) error {
				return mongoDB.Client().Ping(ctx, nil)
			},
		},
		lg,
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		lg.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		lg.Info("Shutting down server", zap.Stringer("signal", sig))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	lg.Info("Server stopped")
	return nil
}

// setupCache returns the Redis-backed cart cache, or a no-op cache when Redis
// is not configured or unreachable at startup.
func setupCache(ctx context.Context, cfg *config.Config, lg *zap.Logger) (c.CartCache, func()) {
	if cfg.RedisAddr == "" {
		lg.Info("Cart cache disabled")
		return c.Nop{}, func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			lg.Warn("Redis close failed", zap.Error(err))
		}
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		lg.Warn("Redis ping failed, cart cache disabled", zap.Error(err))
		closeFn()
		return c.Nop{}, func() {}
	}
	lg.Info("Redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	return c.NewBreakerCache(c.NewRedisCache(redisClient, cfg.CartCacheTTL), lg), closeFn
}

func setupPublisher(cfg *config.Config, lg *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		lg.Info("Order events disabled")
		return events.Nop{}
	}
	lg.Info("Publishing order events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaOrderTopic),
	)
	return events.NewKafkaPublisher(cfg.KafkaOrderTopic, lg, cfg.KafkaBrokers...)
}
