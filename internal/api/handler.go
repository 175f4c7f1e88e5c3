package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/queue"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// ChannelStore — операции с каналами.
type ChannelStore interface {
	Create(ctx context.Context, ownerID int64, externalID, title string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Channel, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Channel, error)
}

// PostStore — операции с постами в очереди.
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*domain.ScheduledPost, error)
	ListPending(ctx context.Context, channelID int64) ([]domain.ScheduledPost, error)
	Delete(ctx context.Context, id int64) error
	UpdateText(ctx context.Context, id int64, body string) error
	UpdateMedia(ctx context.Context, id int64, media *domain.Media) error
}

// StyleStore — примеры стиля канала.
type StyleStore interface {
	Add(ctx context.Context, channelID int64, body string) (int64, error)
	Clear(ctx context.Context, channelID int64) (int64, error)
}

// Admitter ставит пост в очередь.
type Admitter interface {
	Admit(ctx context.Context, req queue.Request) (*queue.Admission, error)
}

// Generator — генерация черновиков.
type Generator interface {
	SplitIntoPosts(ctx context.Context, channelID int64, topic string) ([]string, error)
	Rewrite(ctx context.Context, channelID int64, text string) (string, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	channels  ChannelStore
	posts     PostStore
	styles    StyleStore
	admitter  Admitter
	generator Generator
	metrics   *telemetry.APIMetrics
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Channels  ChannelStore
	Posts     PostStore
	Styles    StyleStore
	Admitter  Admitter
	Generator Generator // опционально: без него /drafts отвечает 503
	Metrics   *telemetry.APIMetrics
	Logger    *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewAPIMetrics(nil)
	}

	return &Handler{
		channels:  cfg.Channels,
		posts:     cfg.Posts,
		styles:    cfg.Styles,
		admitter:  cfg.Admitter,
		generator: cfg.Generator,
		metrics:   metrics,
		logger:    logger,
	}
}
