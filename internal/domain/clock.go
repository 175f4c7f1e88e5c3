package domain

import "time"

// Время публикации хранится как наивное локальное время (TIMESTAMP без зоны).
// pgx читает такие значения в UTC, сохраняя показания часов, поэтому перед
// сравнением с time.Now() их нужно переинтерпретировать в локальной зоне.

// WallClock возвращает момент с теми же показаниями часов, но в зоне loc.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// Anchor возвращает следующий день после t в hour:00:00 (зона t).
func Anchor(t time.Time, hour int) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), hour, 0, 0, 0, t.Location())
}
