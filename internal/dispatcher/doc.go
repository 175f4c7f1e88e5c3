// Package dispatcher реализует периодическую доставку постов, время которых пришло.
//
// Цикл (Tick):
//
//	Idle → Fetching → Delivering(post) → MARKED | FAILED → Idle
//
//  1. Находит due posts (published=false, publish_at <= now), по возрастанию publish_at
//  2. Отправляет каждый пост с Markdown-разметкой (текст / фото / видео)
//  3. Если канал отверг разметку — сразу одна повторная отправка без разметки
//  4. После успешной отправки помечает пост опубликованным
//
// Неудачная доставка оставляет пост в очереди: он снова попадёт в выборку
// в следующем цикле. Лимита попыток нет, пост никогда не теряется.
//
// Доставка и отметка не атомарны: падение между ними приведёт к повторной
// отправке в следующем цикле (at-least-once, не exactly-once).
//
// Два цикла никогда не выполняются одновременно: тик, пришедший во время
// работы предыдущего цикла, пропускается.
//
// Использование:
//
//	d := dispatcher.New(dispatcher.Config{
//	    Posts:     postRepo,
//	    Sink:      telegram,
//	    Publisher: publisher, // опционально
//	    Logger:    logger,
//	    Schedule:  "60s",
//	})
//
//	// Блокируется до отмены ctx
//	if err := d.Run(ctx); err != nil {
//	    logger.Error("dispatcher stopped", "error", err)
//	}
//
// Leader Election:
//
// Dispatcher рассчитан на единственный экземпляр на БД.
// Это обеспечивается в main.go через pg_try_advisory_lock.
package dispatcher
