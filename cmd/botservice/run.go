package botservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"whats-my-order/internal/adapter/whatsapp"
	service "whats-my-order/internal/app/botservice"
	"whats-my-order/internal/shared/config"
	"whats-my-order/internal/shared/logger"
	pg "whats-my-order/internal/shared/postgres"
	"whats-my-order/internal/shared/rabbitmq"
	"whats-my-order/internal/shared/redisstore"
)

// Run wires the bot service and blocks until ctx is cancelled.
// It returns the first terminal error (server or startup failure).
func Run(ctx context.Context, port int, maxConcurrent int) error {
	log := logger.NewLogger("bot-service")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

	// Postgres: order persistence
	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err)
		return err
	}
	defer pool.Close()

	if err := pg.RunMigrations(ctx, cfg, log); err != nil {
		log.Error(ctx, "db_migration_failed", "Failed to apply schema migrations", err)
		return err
	}

	// Redis: session store
	rdb, err := redisstore.Connect(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "redis_connection_failed", "Failed to connect to Redis", err)
		return err
	}
	defer rdb.Close()

	// RabbitMQ: order-created events
	rmq, err := rabbitmq.Connect(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	catalog, err := service.NewCatalogFromConfig(cfg)
	if err != nil {
		log.Error(ctx, "catalog_load_failed", "Failed to build product catalog", err)
		return err
	}

	svc := service.New(
		redisstore.NewSessionStore(rdb, cfg),
		catalog,
		pg.NewUnitOfWork(pool),
		pg.NewOrdersRepo(),
		&rabbitmq.Publisher{Client: rmq},
		whatsapp.NewClient(cfg, log),
		log,
	)

	h := service.NewWebhookHandler(svc, cfg.WhatsApp.VerifyToken, log)

	mux := http.NewServeMux()
	h.Register(mux)

	// Concurrency limiter (global) — blocks when capacity is full.
	handler := withConcurrencyLimit(maxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		// Tie server lifetime to incoming ctx (nice for tests / parent cancel).
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Info(ctx, "service_started",
		fmt.Sprintf("Bot service started on port %d", port),
		map[string]any{"port": port, "max_concurrent": maxConcurrent},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// http.ErrServerClosed is returned on Shutdown; treat that as clean exit.
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Graceful HTTP shutdown (drain keep-alives / in-flight requests).
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx) // best-effort
		return nil
	})

	return g.Wait()
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It blocks until capacity is available, which provides natural backpressure.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sem <- struct{}{}        // acquire
		defer func() { <-sem }() // release
		next.ServeHTTP(w, r)
	})
}
