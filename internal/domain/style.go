package domain

// StyleExample — образец текста автора, привязанный к каналу.
// Используется только как контекст для генерации.
type StyleExample struct {
	ID        int64  `json:"id"`
	ChannelID int64  `json:"channel_id"`
	Body      string `json:"body"`
}
