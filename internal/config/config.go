// Package config загружает конфигурацию процессов Ghostwriter из окружения.
//
// Перед чтением переменных подхватывается файл .env, если он есть.
// Уже заданные переменные окружения .env не перезаписывает.
// Некорректные значения — ошибка, а не молчаливый default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/shaiso/Ghostwriter/internal/dispatcher"
	"github.com/shaiso/Ghostwriter/internal/queue"
)

// ErrInvalid — некорректное значение конфигурации.
var ErrInvalid = errors.New("invalid configuration")

// Config — конфигурация всех процессов.
type Config struct {
	DatabaseURL string // DB_URL
	AMQPURL     string // AMQP_URL; пусто — события отключены

	TelegramToken  string // TELEGRAM_BOT_TOKEN
	TelegramAPIURL string // TELEGRAM_API_URL
	DryRun         bool   // DRY_RUN: доставки только пишутся в лог, посты не помечаются

	LLMAPIKey  string // LLM_API_KEY
	LLMBaseURL string // LLM_BASE_URL
	LLMModel   string // LLM_MODEL

	PublishHour      int            // PUBLISH_HOUR
	DispatchSchedule string         // DISPATCH_INTERVAL: "60s" или cron
	Location         *time.Location // TZ_NAME

	APIPort        string // API_PORT
	DispatcherPort string // DISPATCHER_PORT
	NotifierPort   string // NOTIFIER_PORT

	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv читает конфигурацию только из переменных окружения.
func FromEnv() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		DatabaseURL:      env.get("DB_URL", ""),
		AMQPURL:          env.get("AMQP_URL", ""),
		TelegramToken:    env.get("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   env.get("TELEGRAM_API_URL", ""),
		LLMAPIKey:        env.get("LLM_API_KEY", ""),
		LLMBaseURL:       env.get("LLM_BASE_URL", ""),
		LLMModel:         env.get("LLM_MODEL", ""),
		PublishHour:      queue.DefaultPublishHour,
		DispatchSchedule: env.get("DISPATCH_INTERVAL", dispatcher.DefaultSchedule),
		Location:         time.Local,
		APIPort:          env.get("API_PORT", "8080"),
		DispatcherPort:   env.get("DISPATCHER_PORT", "8081"),
		NotifierPort:     env.get("NOTIFIER_PORT", "8082"),
		LogLevel:         strings.ToUpper(env.get("LOG_LEVEL", "INFO")),
		LogFormat:        strings.ToLower(env.get("LOG_FORMAT", "json")),
	}

	if v := env.get("PUBLISH_HOUR", ""); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: PUBLISH_HOUR %q: %w", ErrInvalid, v, err)
		}
		cfg.PublishHour = hour
	}

	if v := env.get("TZ_NAME", ""); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("%w: TZ_NAME %q: %w", ErrInvalid, v, err)
		}
		cfg.Location = loc
	}

	if v := env.get("DRY_RUN", ""); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: DRY_RUN %q: %w", ErrInvalid, v, err)
		}
		cfg.DryRun = dry
	}

	if env.err != nil {
		return nil, env.err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateDelivery проверяет, что процесс, отправляющий сообщения, может доставлять их.
// Без токена бота разрешён только явный DRY_RUN.
func (c *Config) ValidateDelivery() error {
	if c.TelegramToken == "" && !c.DryRun {
		return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN is required (set DRY_RUN=true to only log deliveries)", ErrInvalid)
	}
	return nil
}

// Validate проверяет значения конфигурации.
func (c *Config) Validate() error {
	if c.PublishHour < 0 || c.PublishHour > 23 {
		return fmt.Errorf("%w: PUBLISH_HOUR must be in 0..23, got %d", ErrInvalid, c.PublishHour)
	}

	if _, err := dispatcher.ParseSchedule(c.DispatchSchedule); err != nil {
		return fmt.Errorf("%w: DISPATCH_INTERVAL: %w", ErrInvalid, err)
	}

	for name, port := range map[string]string{
		"API_PORT":        c.APIPort,
		"DISPATCHER_PORT": c.DispatcherPort,
		"NOTIFIER_PORT":   c.NotifierPort,
	} {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("%w: %s must be a port number, got %q", ErrInvalid, name, port)
		}
	}

	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("%w: LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", ErrInvalid, c.LogLevel)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or text, got %q", ErrInvalid, c.LogFormat)
	}

	return nil
}

// Addr возвращает адрес для http.Server по номеру порта.
func Addr(port string) string {
	return ":" + port
}

// envReader читает переменные и запоминает первую ошибку.
type envReader struct {
	err error
}

// get возвращает значение переменной или fallback.
// Переменная KEY_FILE указывает на файл со значением (docker secrets);
// если файл задан, но не читается, это ошибка, а не fallback.
func (r *envReader) get(key, fallback string) string {
	if path := os.Getenv(key + "_FILE"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if r.err == nil {
				r.err = fmt.Errorf("%w: %s_FILE: %w", ErrInvalid, key, err)
			}
			return fallback
		}
		return strings.TrimSpace(string(content))
	}
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
