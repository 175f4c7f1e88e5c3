package domain

import "time"

// Channel — цель публикации (Telegram-канал).
//
// Канал регистрирует оператор. После создания канал не меняется.
// Несколько Channel с одинаковым ExternalID допустимы — за это отвечает оператор.
type Channel struct {
	// ID — локальный идентификатор, выдаётся Store.
	ID int64 `json:"id"`

	// OwnerID — идентификатор оператора-владельца (Telegram user id).
	OwnerID int64 `json:"owner_id"`

	// ExternalID — идентификатор канала для Delivery Sink
	// ("-1001234567890" или "@my_channel").
	ExternalID string `json:"external_id"`

	// Title — отображаемое название.
	Title string `json:"title"`

	// CreatedAt — время регистрации канала.
	CreatedAt time.Time `json:"created_at"`
}
