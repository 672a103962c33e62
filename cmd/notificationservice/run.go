package notificationservice

import (
	"context"

	service "whats-my-order/internal/app/notificationservice"
	"whats-my-order/internal/shared/config"
	"whats-my-order/internal/shared/logger"
	"whats-my-order/internal/shared/rabbitmq"
)

// Run wires the notification subscriber and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	log := logger.NewLogger("notification-subscriber")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err)
		return err
	}

	rmq, err := rabbitmq.Connect(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		return err
	}
	defer rmq.Close()

	log.Info(ctx, "service_started", "Notification subscriber started", nil)

	service.ConsumeForever(ctx, rmq, log)
	return nil
}
