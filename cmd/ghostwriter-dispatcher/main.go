// Ghostwriter Dispatcher — доставляет посты, время которых наступило.
//
// Dispatcher:
//   - Раз в DISPATCH_INTERVAL выбирает due posts
//   - Отправляет их в Telegram (TELEGRAM_BOT_TOKEN обязателен;
//     DRY_RUN=true пишет отправки в лог и не помечает посты)
//   - Помечает доставленные посты опубликованными
//   - Публикует события post.published / post.failed (если задан AMQP_URL)
//
// На одну БД работает один Dispatcher: остальные экземпляры ждут
// advisory lock и подхватывают работу, если лидер остановится.
// Если сессия lock оборвалась, процесс завершается с ошибкой.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Ghostwriter/internal/config"
	"github.com/shaiso/Ghostwriter/internal/delivery"
	"github.com/shaiso/Ghostwriter/internal/dispatcher"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/repo"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// leaderCheckInterval — период проверки сессии advisory lock.
const leaderCheckInterval = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Инициализируем structured logging
	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	logger.Info("starting ghostwriter-dispatcher")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ghostwriter-dispatcher failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
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

	reg := telemetry.NewRegistry()

	dcfg := dispatcher.Config{
		Posts:    repo.NewPostRepo(pool, cfg.Location),
		Sink:     sink,
		Logger:   logger,
		Metrics:  telemetry.NewDispatcherMetrics(reg),
		Schedule: cfg.DispatchSchedule,
		Location: cfg.Location,
		DryRun:   cfg.DryRun,
	}
	checks := []telemetry.HealthCheck{{Name: "postgres", Check: pool.Ping}}

	// RabbitMQ
	if cfg.AMQPURL != "" {
		conn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, events disabled", "error", err)
		} else {
			defer conn.Close()
			if err := mq.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			} else {
				logger.Debug("topology declared", "topology", mq.TopologyInfo())
			}
			dcfg.Publisher = mq.NewPublisher(conn, logger)
			checks = append(checks, telemetry.HealthCheck{Name: "rabbitmq", Check: conn.Check})
		}
	}

	server := &http.Server{
		Addr:    config.Addr(cfg.DispatcherPort),
		Handler: telemetry.NewOpsMux(reg, checks...),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return telemetry.Serve(ctx, server, logger)
	})

	g.Go(func() error {
		// пытаемся стать лидером
		lock, err := repo.WaitLeaderLock(ctx, pool, repo.DispatcherLockKey, 5*time.Second, func(err error) {
			if err != nil {
				logger.Warn("leader lock error", "error", err)
				return
			}
			logger.Debug("another dispatcher holds the lock, waiting")
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		defer lock.Release()
		logger.Info("leader lock acquired")

		// Потеря сессии lock останавливает dispatcher: работать без лидерства нельзя
		lg, lctx := errgroup.WithContext(ctx)
		lg.Go(func() error { return lock.Watch(lctx, leaderCheckInterval) })
		lg.Go(func() error { return dispatcher.New(dcfg).Run(lctx) })
		return lg.Wait()
	})

	return g.Wait()
}
