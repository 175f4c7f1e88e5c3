package domain

import (
	"fmt"
	"strings"
)

// MediaKind — тип вложения поста.
type MediaKind string

const (
	// MediaKindPhoto — фотография.
	MediaKindPhoto MediaKind = "photo"

	// MediaKindVideo — видео.
	MediaKindVideo MediaKind = "video"
)

// Valid возвращает true для известных типов вложений.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindPhoto, MediaKindVideo:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление MediaKind.
func (k MediaKind) String() string {
	return string(k)
}

// ParseMediaKind парсит строку в MediaKind.
// Неизвестный тип — ошибка ErrInvalidMediaKind, без подстановки значения по умолчанию.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaKind, s)
	}
	return k, nil
}

// Media — вложение поста: file_id в Telegram и его тип.
type Media struct {
	ID   string    `json:"id"`
	Kind MediaKind `json:"kind"`
}

// NewMedia собирает вложение из пары (id, kind).
// Пустые id и kind означают "без вложения" и возвращают nil.
func NewMedia(id, kind string) (*Media, error) {
	if id == "" && kind == "" {
		return nil, nil
	}
	if id == "" {
		return nil, fmt.Errorf("%w: media id is empty", ErrInvalidMedia)
	}
	k, err := ParseMediaKind(kind)
	if err != nil {
		return nil, err
	}
	return &Media{ID: id, Kind: k}, nil
}
