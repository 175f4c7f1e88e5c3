package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Ghostwriter/internal/delivery"
	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/repo"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// DefaultFailureCooldown — минимальный интервал между уведомлениями о сбое одного поста.
const DefaultFailureCooldown = time.Hour

// ChannelStore — поиск канала по ID.
type ChannelStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Channel, error)
}

// Notifier отправляет оператору уведомления о постах.
type Notifier struct {
	channels ChannelStore
	sink     delivery.Sink
	logger   *slog.Logger
	cooldown time.Duration
	loc      *time.Location
	now      func() time.Time

	mu         sync.Mutex
	lastFailed map[int64]time.Time
}

// Config — конфигурация Notifier.
type Config struct {
	Channels        ChannelStore
	Sink            delivery.Sink
	Logger          *slog.Logger
	FailureCooldown time.Duration  // default: 1h
	Location        *time.Location // зона наивного времени (default: time.Local)
	Now             func() time.Time
}

// New создаёт Notifier.
func New(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cooldown := cfg.FailureCooldown
	if cooldown <= 0 {
		cooldown = DefaultFailureCooldown
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Notifier{
		channels:   cfg.Channels,
		sink:       cfg.Sink,
		logger:     telemetry.WithComponent(logger, "notifier"),
		cooldown:   cooldown,
		loc:        loc,
		now:        now,
		lastFailed: make(map[int64]time.Time),
	}
}

// Run запускает consumers для всех очередей событий и блокируется до отмены ctx.
func (n *Notifier) Run(ctx context.Context, conn *mq.Connection) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, q := range []mq.Queue{mq.QueuePostsScheduled, mq.QueuePostsPublished, mq.QueuePostsFailed} {
		consumer := mq.NewConsumer(conn, n.logger, mq.ConsumerConfig{
			Queue:    string(q),
			Handler:  n.Handle,
			Prefetch: 5,
		})
		g.Go(func() error {
			n.logger.Info("consuming", "queue", q)
			return consumer.Start(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Handle обрабатывает одно событие. Подходит как mq.Handler.
func (n *Notifier) Handle(ctx context.Context, d *mq.Delivery) error {
	msg := &d.Message

	switch msg.Type {
	case mq.MessageTypePostScheduled:
		payload, err := mq.ParsePayload[mq.PostScheduledPayload](msg)
		if err != nil {
			return mq.Permanent(err)
		}
		return n.notifyScheduled(ctx, payload)

	case mq.MessageTypePostPublished:
		payload, err := mq.ParsePayload[mq.PostPublishedPayload](msg)
		if err != nil {
			return mq.Permanent(err)
		}
		return n.notifyPublished(ctx, payload)

	case mq.MessageTypePostFailed:
		payload, err := mq.ParsePayload[mq.PostFailedPayload](msg)
		if err != nil {
			return mq.Permanent(err)
		}
		return n.notifyFailed(ctx, payload)

	default:
		return mq.Permanent(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

func (n *Notifier) notifyScheduled(ctx context.Context, p mq.PostScheduledPayload) error {
	at := p.PublishAt.In(n.loc).Format("2006-01-02 15:04")
	return n.send(ctx, p.ChannelID, p.PostID, func(ch *domain.Channel) string {
		return fmt.Sprintf("Post #%d for %s is queued for %s.", p.PostID, channelName(ch), at)
	})
}

func (n *Notifier) notifyPublished(ctx context.Context, p mq.PostPublishedPayload) error {
	n.mu.Lock()
	delete(n.lastFailed, p.PostID)
	n.mu.Unlock()

	return n.send(ctx, p.ChannelID, p.PostID, func(ch *domain.Channel) string {
		text := fmt.Sprintf("Post #%d published to %s.", p.PostID, channelName(ch))
		if p.PlainFallback {
			text += " Formatting was rejected, so it was sent as plain text."
		}
		if !p.Marked {
			text += " It could not be marked as published and may be sent again."
		}
		return text
	})
}

func (n *Notifier) notifyFailed(ctx context.Context, p mq.PostFailedPayload) error {
	now := n.now()

	n.mu.Lock()
	n.evictExpired(now)
	last, seen := n.lastFailed[p.PostID]
	if seen && now.Sub(last) < n.cooldown {
		n.mu.Unlock()
		telemetry.WithPostID(n.logger, p.PostID).Debug("failure notification suppressed", "last", last)
		return nil
	}
	n.lastFailed[p.PostID] = now
	n.mu.Unlock()

	err := n.send(ctx, p.ChannelID, p.PostID, func(ch *domain.Channel) string {
		return fmt.Sprintf("Post #%d could not be delivered to %s: %s. It stays queued and will be retried.",
			p.PostID, channelName(ch), p.Error)
	})
	if err != nil {
		// Не отправили — следующий сбой должен уведомить снова
		n.mu.Lock()
		if seen {
			n.lastFailed[p.PostID] = last
		} else {
			delete(n.lastFailed, p.PostID)
		}
		n.mu.Unlock()
	}
	return err
}

// evictExpired удаляет записи старше cooldown: они уже ничего не подавляют.
// Вызывается под n.mu.
func (n *Notifier) evictExpired(now time.Time) {
	for id, at := range n.lastFailed {
		if now.Sub(at) >= n.cooldown {
			delete(n.lastFailed, id)
		}
	}
}

// send находит владельца канала и отправляет ему текст.
func (n *Notifier) send(ctx context.Context, channelID, postID int64, text func(*domain.Channel) string) error {
	logger := telemetry.WithPostID(telemetry.WithChannelID(n.logger, channelID), postID)

	ch, err := n.channels.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return mq.Permanent(fmt.Errorf("channel %d: %w", channelID, err))
		}
		return fmt.Errorf("get channel: %w", err)
	}

	if ch.OwnerID == 0 {
		logger.Warn("channel has no owner, notification dropped")
		return nil
	}

	if err := n.sink.SendText(ctx, strconv.FormatInt(ch.OwnerID, 10), text(ch), delivery.ParseModePlain); err != nil {
		return fmt.Errorf("notify owner: %w", err)
	}

	logger.Debug("owner notified", "owner_id", ch.OwnerID)
	return nil
}

func channelName(ch *domain.Channel) string {
	if ch.Title != "" && ch.Title != ch.ExternalID {
		return fmt.Sprintf("%s (%s)", ch.Title, ch.ExternalID)
	}
	return ch.ExternalID
}
