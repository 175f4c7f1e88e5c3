// Ghostwriter Notifier — личные уведомления владельцам каналов.
//
// Notifier:
//   - Получает события posts.scheduled / posts.published / posts.failed из RabbitMQ
//   - Находит владельца канала
//   - Отправляет ему короткое сообщение через Telegram
//
// Notifier масштабируется горизонтально; без AMQP_URL не запускается.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Ghostwriter/internal/config"
	"github.com/shaiso/Ghostwriter/internal/delivery"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/notifier"
	"github.com/shaiso/Ghostwriter/internal/repo"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Инициализируем structured logging
	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	logger.Info("starting ghostwriter-notifier")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ghostwriter-notifier failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AMQPURL == "" {
		return fmt.Errorf("%w: AMQP_URL is required", config.ErrInvalid)
	}
	if err := cfg.ValidateDelivery(); err != nil {
		return err
	}
	sink, err := delivery.NewSink(delivery.TelegramConfig{
		Token:   cfg.TelegramToken,
		BaseURL: cfg.TelegramAPIURL,
	}, cfg.DryRun, logger)
	if err != nil {
		return err
	}

	// DB pool
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	// RabbitMQ
	conn, err := mq.NewConnection(cfg.AMQPURL, logger)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer conn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, conn); err != nil {
		return fmt.Errorf("setup topology: %w", err)
	}
	logger.Debug("topology declared", "topology", mq.TopologyInfo())

	n := notifier.New(notifier.Config{
		Channels: repo.NewChannelRepo(pool),
		Sink:     sink,
		Logger:   logger,
		Location: cfg.Location,
	})

	server := &http.Server{
		Addr:    config.Addr(cfg.NotifierPort),
		Handler: telemetry.NewOpsMux(telemetry.NewRegistry(),
			telemetry.HealthCheck{Name: "postgres", Check: pool.Ping},
			telemetry.HealthCheck{Name: "rabbitmq", Check: conn.Check},
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telemetry.Serve(ctx, server, logger) })
	g.Go(func() error { return n.Run(ctx, conn) })
	return g.Wait()
}
