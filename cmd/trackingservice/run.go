package trackingservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	service "whats-my-order/internal/app/trackingservice"
	"whats-my-order/internal/shared/config"
	"whats-my-order/internal/shared/logger"
	pg "whats-my-order/internal/shared/postgres"
)

// Run wires the tracking service and blocks until ctx is cancelled.
func Run(ctx context.Context, port int) error {
	log := logger.NewLogger("tracking-service")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

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

	svc := service.NewService(pg.NewUnitOfWork(pool), pg.NewOrdersRepo(), log)
	h := service.NewHandler(log, svc)

	mux := http.NewServeMux()
	h.Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info(ctx, "service_started",
		fmt.Sprintf("Tracking service started on port %d", port),
		map[string]any{"port": port},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	})

	return g.Wait()
}
