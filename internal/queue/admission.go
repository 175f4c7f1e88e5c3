package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// DefaultPublishHour — час публикации по умолчанию.
const DefaultPublishHour = 12

// ErrEmptyText — попытка поставить в очередь пустой пост.
var ErrEmptyText = errors.New("post text is empty")

// PostStore — часть Store, которая нужна admission.
type PostStore interface {
	LastPendingPublishTime(ctx context.Context, channelID int64) (time.Time, bool, error)
	Schedule(ctx context.Context, channelID int64, body string, publishAt time.Time, media *domain.Media) (int64, error)
}

// ChannelStore проверяет существование канала.
type ChannelStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Channel, error)
}

// EventPublisher получает уведомления о новых постах в очереди.
type EventPublisher interface {
	PublishPostScheduled(ctx context.Context, postID, channelID int64, publishAt time.Time) error
}

// Admitter вычисляет слот публикации и сохраняет пост.
type Admitter struct {
	posts     PostStore
	channels  ChannelStore
	publisher EventPublisher
	logger    *slog.Logger
	hour      int
	loc       *time.Location
	now       func() time.Time
}

// Config — конфигурация Admitter.
type Config struct {
	Posts     PostStore
	Channels  ChannelStore
	Publisher EventPublisher // опционально
	Logger    *slog.Logger
	Hour      int            // час публикации (default: 12)
	Location  *time.Location // зона наивного времени (default: time.Local)
	Now       func() time.Time
}

// Request — пост, одобренный оператором.
type Request struct {
	ChannelID int64
	Text      string
	Media     *domain.Media
}

// Admission — результат постановки в очередь.
type Admission struct {
	PostID    int64     `json:"post_id"`
	ChannelID int64     `json:"channel_id"`
	PublishAt time.Time `json:"publish_at"`
}

// New создаёт новый Admitter.
func New(cfg Config) *Admitter {
	hour := cfg.Hour
	if hour < 0 || hour > 23 {
		hour = DefaultPublishHour
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Admitter{
		posts:     cfg.Posts,
		channels:  cfg.Channels,
		publisher: cfg.Publisher,
		logger:    logger,
		hour:      hour,
		loc:       loc,
		now:       now,
	}
}

// NextSlot вычисляет время публикации следующего поста канала.
//
// Ошибка хранилища возвращается как есть: подставлять anchor(now) при сбое
// нельзя — это поставило бы пост в уже занятый слот.
func (a *Admitter) NextSlot(ctx context.Context, channelID int64) (time.Time, error) {
	last, ok, err := a.posts.LastPendingPublishTime(ctx, channelID)
	if err != nil {
		return time.Time{}, fmt.Errorf("last pending publish time: %w", err)
	}

	now := a.now().In(a.loc)
	if ok {
		last = domain.WallClock(last, a.loc)
		if last.After(now) {
			return domain.Anchor(last, a.hour), nil
		}
	}
	return domain.Anchor(now, a.hour), nil
}

// Admit ставит пост в очередь канала.
func (a *Admitter) Admit(ctx context.Context, req Request) (*Admission, error) {
	if strings.TrimSpace(req.Text) == "" && req.Media == nil {
		return nil, ErrEmptyText
	}

	if a.channels != nil {
		if _, err := a.channels.GetByID(ctx, req.ChannelID); err != nil {
			return nil, fmt.Errorf("get channel: %w", err)
		}
	}

	publishAt, err := a.NextSlot(ctx, req.ChannelID)
	if err != nil {
		return nil, err
	}

	postID, err := a.posts.Schedule(ctx, req.ChannelID, req.Text, publishAt, req.Media)
	if err != nil {
		return nil, fmt.Errorf("schedule post: %w", err)
	}

	logger := telemetry.WithPostID(telemetry.WithChannelID(a.logger, req.ChannelID), postID)
	logger.Info("post admitted", "publish_at", publishAt.Format(time.DateTime), "has_media", req.Media != nil)

	if a.publisher != nil {
		if err := a.publisher.PublishPostScheduled(ctx, postID, req.ChannelID, publishAt); err != nil {
			// Пост уже в БД, событие носит информационный характер
			logger.Warn("failed to publish post.scheduled", "error", err)
		}
	}

	return &Admission{PostID: postID, ChannelID: req.ChannelID, PublishAt: publishAt}, nil
}
