// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий жизненного цикла поста
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - post.scheduled — пост поставлен в очередь
//   - post.published — пост доставлен в канал
//   - post.failed    — доставка не удалась, пост будет повторён
//
// Exchanges:
//   - ghostwriter.posts — события постов
//   - ghostwriter.dlq   — dead letter queue
package mq
