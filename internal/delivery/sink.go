package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

// Ошибки доставки.
var (
	// ErrFormatRejected — сообщение отвергнуто из-за разметки.
	ErrFormatRejected = errors.New("formatting rejected")

	// ErrDeliveryFailed — доставка не удалась по иной причине.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrUnsupportedMedia — неизвестный тип вложения.
	ErrUnsupportedMedia = errors.New("unsupported media kind")

	// ErrNoToken — токен бота не задан, а dry-run не включён.
	ErrNoToken = errors.New("telegram bot token is not set")
)

// ParseMode — режим разметки текста.
type ParseMode string

const (
	// ParseModeMarkdown — богатая разметка (Telegram Markdown).
	ParseModeMarkdown ParseMode = "Markdown"

	// ParseModePlain — текст без разметки.
	ParseModePlain ParseMode = ""
)

// Sink — канал публикации.
type Sink interface {
	SendText(ctx context.Context, chatID, text string, mode ParseMode) error
	SendPhoto(ctx context.Context, chatID, mediaID, caption string, mode ParseMode) error
	SendVideo(ctx context.Context, chatID, mediaID, caption string, mode ParseMode) error
}

// SendPost отправляет пост, выбирая метод по типу вложения.
func SendPost(ctx context.Context, sink Sink, chatID string, post *domain.ScheduledPost, mode ParseMode) error {
	if !post.HasMedia() {
		return sink.SendText(ctx, chatID, post.Body, mode)
	}

	switch post.Media.Kind {
	case domain.MediaKindPhoto:
		return sink.SendPhoto(ctx, chatID, post.Media.ID, post.Body, mode)
	case domain.MediaKindVideo:
		return sink.SendVideo(ctx, chatID, post.Media.ID, post.Body, mode)
	default:
		return fmt.Errorf("%w: %w: %q", ErrDeliveryFailed, ErrUnsupportedMedia, post.Media.Kind)
	}
}

// IsFormatRejected сообщает, можно ли повторить отправку без разметки.
func IsFormatRejected(err error) bool {
	return errors.Is(err, ErrFormatRejected)
}
