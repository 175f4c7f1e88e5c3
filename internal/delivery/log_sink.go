package delivery

import (
	"context"
	"log/slog"
)

// LogSink — Sink, который только пишет сообщения в лог.
// Используется только в явном режиме DRY_RUN.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink создаёт LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SendText(_ context.Context, chatID, text string, mode ParseMode) error {
	s.logger.Info("dry-run send", "chat_id", chatID, "kind", "text", "parse_mode", string(mode), "length", len(text))
	return nil
}

func (s *LogSink) SendPhoto(_ context.Context, chatID, mediaID, caption string, mode ParseMode) error {
	s.logger.Info("dry-run send", "chat_id", chatID, "kind", "photo", "media_id", mediaID, "parse_mode", string(mode), "length", len(caption))
	return nil
}

func (s *LogSink) SendVideo(_ context.Context, chatID, mediaID, caption string, mode ParseMode) error {
	s.logger.Info("dry-run send", "chat_id", chatID, "kind", "video", "media_id", mediaID, "parse_mode", string(mode), "length", len(caption))
	return nil
}

// NewSink выбирает реализацию: Telegram по токену или LogSink в явном dry-run.
// Без токена и без dry-run возвращает ErrNoToken: молча терять сообщения нельзя.
func NewSink(cfg TelegramConfig, dryRun bool, logger *slog.Logger) (Sink, error) {
	if dryRun {
		logger.Warn("DRY_RUN is enabled, deliveries are only logged")
		return NewLogSink(logger), nil
	}
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	return NewTelegram(cfg), nil
}
