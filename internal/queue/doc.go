// Package queue реализует постановку поста в очередь публикации (admission).
//
// Слот публикации выбирается детерминированно: один пост в день на канал,
// в фиксированный час (по умолчанию 12:00).
//
//	последний ожидающий пост в будущем → следующий день после него, HH:00
//	иначе (очереди нет или она просрочена) → завтра, HH:00
//
// Просроченная очередь (dispatcher ещё не догнал) не продлевается от
// устаревшего времени: слот пересчитывается от текущего момента.
//
// Admitter не хранит состояния — всё в Store. Предполагается один путь
// admission на канал (оператор работает последовательно).
package queue
