package repo

import (
	"fmt"
	"time"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

// nullString возвращает nil для пустой строки.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mediaArgs раскладывает вложение на два nullable-столбца.
func mediaArgs(m *domain.Media) (*string, *string) {
	if m == nil {
		return nil, nil
	}
	return nullString(m.ID), nullString(m.Kind.String())
}

// scanMedia собирает вложение из nullable-столбцов.
func scanMedia(id, kind *string) (*domain.Media, error) {
	var mediaID, mediaKind string
	if id != nil {
		mediaID = *id
	}
	if kind != nil {
		mediaKind = *kind
	}
	m, err := domain.NewMedia(mediaID, mediaKind)
	if err != nil {
		return nil, fmt.Errorf("%w: media: %v", ErrCorruptRow, err)
	}
	return m, nil
}

// naive отбрасывает часовой пояс: в БД уходят только показания часов.
func naive(t time.Time) time.Time {
	return domain.WallClock(t, time.UTC)
}
