package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangePosts Exchange = "ghostwriter.posts"
	ExchangeDLQ   Exchange = "ghostwriter.dlq"
)

// Queues — имена очередей.
const (
	QueuePostsScheduled Queue = "posts.scheduled"
	QueuePostsPublished Queue = "posts.published"
	QueuePostsFailed    Queue = "posts.failed"
	QueueDLQPosts       Queue = "dlq.posts"
)

// Routing keys.
const (
	RoutingKeyScheduled RoutingKey = "scheduled"
	RoutingKeyPublished RoutingKey = "published"
	RoutingKeyFailed    RoutingKey = "failed"
	RoutingKeyDLQPosts  RoutingKey = "posts"
)

// SetupTopology объявляет exchanges, queues и bindings. Идемпотентно.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		// 1. Создаём exchanges
		if err := declareExchanges(ch); err != nil {
			return err
		}

		// 2. Создаём queues
		if err := declareQueues(ch); err != nil {
			return err
		}

		// 3. Привязываем queues к exchanges
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	for _, name := range []Exchange{ExchangePosts, ExchangeDLQ} {
		err := ch.ExchangeDeclare(
			string(name), // name
			"direct",     // type
			true,         // durable
			false,        // auto-deleted
			false,        // internal
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQPosts),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// posts.* — читает notifier, битые сообщения уходят в DLQ
		{QueuePostsScheduled, dlqArgs},
		{QueuePostsPublished, dlqArgs},
		{QueuePostsFailed, dlqArgs},

		// dlq.posts — сама DLQ очередь
		{QueueDLQPosts, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	for _, b := range Bindings() {
		err := ch.QueueBind(
			string(b.Queue),      // queue name
			string(b.RoutingKey), // routing key
			string(b.Exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.Queue, b.Exchange, err)
		}
	}

	return nil
}

// Binding — привязка очереди к обменнику.
type Binding struct {
	Queue      Queue
	RoutingKey RoutingKey
	Exchange   Exchange
}

// Bindings возвращает все привязки топологии.
func Bindings() []Binding {
	return []Binding{
		{QueuePostsScheduled, RoutingKeyScheduled, ExchangePosts},
		{QueuePostsPublished, RoutingKeyPublished, ExchangePosts},
		{QueuePostsFailed, RoutingKeyFailed, ExchangePosts},
		{QueueDLQPosts, RoutingKeyDLQPosts, ExchangeDLQ},
	}
}

// RouteFor возвращает exchange и routing key для типа сообщения.
func RouteFor(t MessageType) (Exchange, RoutingKey, error) {
	switch t {
	case MessageTypePostScheduled:
		return ExchangePosts, RoutingKeyScheduled, nil
	case MessageTypePostPublished:
		return ExchangePosts, RoutingKeyPublished, nil
	case MessageTypePostFailed:
		return ExchangePosts, RoutingKeyFailed, nil
	default:
		return "", "", fmt.Errorf("unknown message type %q", t)
	}
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Ghostwriter RabbitMQ Topology:

    ghostwriter.posts (direct)
    ├── posts.scheduled [routing: scheduled]
    │       Consumer: Notifier
    │       DLQ: dlq.posts
    ├── posts.published [routing: published]
    │       Consumer: Notifier
    │       DLQ: dlq.posts
    └── posts.failed    [routing: failed]
            Consumer: Notifier
            DLQ: dlq.posts

    ghostwriter.dlq (direct)
    └── dlq.posts [routing: posts]
            Manual processing
  `
}
