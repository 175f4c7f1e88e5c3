package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypePostScheduled MessageType = "post.scheduled"
	MessageTypePostPublished MessageType = "post.published"
	MessageTypePostFailed    MessageType = "post.failed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// PostScheduledPayload — пост поставлен в очередь.
type PostScheduledPayload struct {
	PostID    int64     `json:"post_id"`
	ChannelID int64     `json:"channel_id"`
	PublishAt time.Time `json:"publish_at"`
}

// PostPublishedPayload — пост доставлен в канал.
type PostPublishedPayload struct {
	PostID    int64 `json:"post_id"`
	ChannelID int64 `json:"channel_id"`

	// PlainFallback — доставлен без разметки после отказа Markdown.
	PlainFallback bool `json:"plain_fallback"`

	// Marked — пост помечен опубликованным (false: будет повторная отправка).
	Marked bool `json:"marked"`
}

// PostFailedPayload — доставка не удалась, пост остаётся в очереди.
type PostFailedPayload struct {
	PostID    int64  `json:"post_id"`
	ChannelID int64  `json:"channel_id"`
	Error     string `json:"error"`
}

// NewMessage создаёт сообщение с новым ID.
func NewMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// publishEvent публикует событие по маршруту его типа.
func (p *Publisher) publishEvent(ctx context.Context, msgType MessageType, payload any) error {
	exchange, routingKey, err := RouteFor(msgType)
	if err != nil {
		return err
	}
	return p.Publish(ctx, exchange, routingKey, NewMessage(msgType, payload))
}

// PublishPostScheduled публикует событие о новом посте в очереди.
func (p *Publisher) PublishPostScheduled(ctx context.Context, postID, channelID int64, publishAt time.Time) error {
	return p.publishEvent(ctx, MessageTypePostScheduled, PostScheduledPayload{
		PostID:    postID,
		ChannelID: channelID,
		PublishAt: publishAt,
	})
}

// PublishPostPublished публикует событие о доставленном посте.
// Потребитель: Notifier.
func (p *Publisher) PublishPostPublished(ctx context.Context, payload PostPublishedPayload) error {
	return p.publishEvent(ctx, MessageTypePostPublished, payload)
}

// PublishPostFailed публикует событие о неудачной доставке.
// Потребитель: Notifier.
func (p *Publisher) PublishPostFailed(ctx context.Context, payload PostFailedPayload) error {
	return p.publishEvent(ctx, MessageTypePostFailed, payload)
}
