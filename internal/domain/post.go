package domain

import "time"

// ScheduledPost — пост с дедлайном публикации.
//
// Жизненный цикл:
//
//	admission → pending (Published=false) → published (Published=true)
//
// Published меняется только false → true. Пост виден в due-выборке,
// если Published=false и PublishAt <= момента проверки.
type ScheduledPost struct {
	// ID — локальный идентификатор, монотонно растёт.
	ID int64 `json:"id"`

	// ChannelID — канал, в который публикуется пост.
	ChannelID int64 `json:"channel_id"`

	// Body — текст поста.
	Body string `json:"body"`

	// Media — необязательное вложение.
	Media *Media `json:"media,omitempty"`

	// PublishAt — "не раньше чем". Наивное локальное время без часового пояса.
	PublishAt time.Time `json:"publish_at"`

	// Published — пост опубликован.
	Published bool `json:"published"`
}

// HasMedia возвращает true, если к посту прикреплено вложение.
func (p *ScheduledPost) HasMedia() bool {
	return p.Media != nil && p.Media.ID != ""
}

// IsDue проверяет, пора ли публиковать пост.
func (p *ScheduledPost) IsDue(now time.Time) bool {
	if p.Published {
		return false
	}
	return !WallClock(p.PublishAt, now.Location()).After(now)
}

// DuePost — пост из due-выборки вместе с внешним идентификатором канала.
type DuePost struct {
	ScheduledPost

	// ChannelExternalID — ExternalID канала (JOIN с channels).
	ChannelExternalID string `json:"channel_external_id"`
}
