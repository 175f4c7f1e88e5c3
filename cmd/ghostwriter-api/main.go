// Ghostwriter API — HTTP API для управления каналами, очередью и черновиками.
//
// API:
//   - Регистрирует каналы и примеры стиля
//   - Ставит посты в очередь (queue admission)
//   - Генерирует черновики через LLM (если задан LLM_API_KEY)
//   - Публикует события post.scheduled (если задан AMQP_URL)
//
// При старте применяет миграции БД.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Ghostwriter/internal/api"
	"github.com/shaiso/Ghostwriter/internal/config"
	"github.com/shaiso/Ghostwriter/internal/generator"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/queue"
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
	logger.Info("starting ghostwriter-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ghostwriter-api failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Подключаемся к базе данных
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := repo.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Создаём репозитории
	channels := repo.NewChannelRepo(pool)
	posts := repo.NewPostRepo(pool, cfg.Location)
	styles := repo.NewStyleRepo(pool)

	admission := queue.Config{
		Posts:    posts,
		Channels: channels,
		Logger:   logger,
		Hour:     cfg.PublishHour,
		Location: cfg.Location,
	}

	checks := []telemetry.HealthCheck{{Name: "postgres", Check: pool.Ping}}

	// RabbitMQ опционален: без него события не публикуются
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
			admission.Publisher = mq.NewPublisher(conn, logger)
			checks = append(checks, telemetry.HealthCheck{Name: "rabbitmq", Check: conn.Check})
		}
	}

	reg := telemetry.NewRegistry()

	handlerCfg := api.Config{
		Channels: channels,
		Posts:    posts,
		Styles:   styles,
		Admitter: queue.New(admission),
		Metrics:  telemetry.NewAPIMetrics(reg),
		Logger:   logger,
	}
	if cfg.LLMAPIKey != "" {
		handlerCfg.Generator = generator.New(generator.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Styles:  styles,
			History: posts,
			Logger:  logger,
		})
	} else {
		logger.Warn("LLM_API_KEY is not set, draft generation disabled")
	}

	mux := telemetry.NewOpsMux(reg, checks...)
	api.NewHandler(handlerCfg).RegisterRoutes(mux)

	server := &http.Server{
		Addr:    config.Addr(cfg.APIPort),
		Handler: mux,
	}
	return telemetry.Serve(ctx, server, logger)
}
