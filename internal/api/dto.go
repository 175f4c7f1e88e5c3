package api

import (
	"time"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

// Channel DTOs

// CreateChannelRequest — запрос на регистрацию канала.
type CreateChannelRequest struct {
	OwnerID    int64  `json:"owner_id"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
}

// ChannelResponse — ответ с каналом.
type ChannelResponse struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChannelFromDomain конвертирует domain.Channel в ChannelResponse.
func ChannelFromDomain(c *domain.Channel) ChannelResponse {
	return ChannelResponse{
		ID:         c.ID,
		OwnerID:    c.OwnerID,
		ExternalID: c.ExternalID,
		Title:      c.Title,
		CreatedAt:  c.CreatedAt,
	}
}

// Post DTOs

// QueuePostRequest — одобренный пост для постановки в очередь.
type QueuePostRequest struct {
	Text      string `json:"text"`
	MediaID   string `json:"media_id,omitempty"`
	MediaKind string `json:"media_kind,omitempty"`
}

// QueuePostResponse — результат постановки в очередь.
type QueuePostResponse struct {
	ID        int64     `json:"id"`
	ChannelID int64     `json:"channel_id"`
	PublishAt time.Time `json:"publish_at"`
}

// UpdatePostTextRequest — новый текст поста.
type UpdatePostTextRequest struct {
	Text string `json:"text"`
}

// UpdatePostMediaRequest — новое вложение. Пустые поля убирают вложение.
type UpdatePostMediaRequest struct {
	MediaID   string `json:"media_id"`
	MediaKind string `json:"media_kind"`
}

// MediaResponse — вложение поста.
type MediaResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// PostResponse — ответ с постом.
type PostResponse struct {
	ID        int64          `json:"id"`
	ChannelID int64          `json:"channel_id"`
	Text      string         `json:"text"`
	Media     *MediaResponse `json:"media,omitempty"`
	PublishAt time.Time      `json:"publish_at"`
	Published bool           `json:"published"`
}

// PostFromDomain конвертирует domain.ScheduledPost в PostResponse.
func PostFromDomain(p *domain.ScheduledPost) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		ChannelID: p.ChannelID,
		Text:      p.Body,
		PublishAt: p.PublishAt,
		Published: p.Published,
	}
	if p.HasMedia() {
		resp.Media = &MediaResponse{ID: p.Media.ID, Kind: p.Media.Kind.String()}
	}
	return resp
}

// Draft DTOs

// GenerateDraftsRequest — тема для генерации.
type GenerateDraftsRequest struct {
	Topic string `json:"topic"`
}

// DraftsResponse — сгенерированные черновики.
type DraftsResponse struct {
	ChannelID int64    `json:"channel_id"`
	Drafts    []string `json:"drafts"`
}

// RewriteRequest — текст для рерайта.
type RewriteRequest struct {
	ChannelID int64  `json:"channel_id"`
	Text      string `json:"text"`
}

// RewriteResponse — результат рерайта.
type RewriteResponse struct {
	ChannelID int64  `json:"channel_id"`
	Text      string `json:"text"`
}

// Style DTOs

// AddStyleRequest — пример стиля.
type AddStyleRequest struct {
	Text string `json:"text"`
}

// AddStyleResponse — сохранённый пример.
type AddStyleResponse struct {
	ID        int64 `json:"id"`
	ChannelID int64 `json:"channel_id"`
}

// ResetStyleResponse — результат очистки стиля.
type ResetStyleResponse struct {
	ChannelID int64 `json:"channel_id"`
	Removed   int64 `json:"removed"`
}
