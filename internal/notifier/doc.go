// Package notifier сообщает оператору о жизненном цикле его постов.
//
// Notifier потребляет события из RabbitMQ и отправляет владельцу канала
// личное сообщение через Delivery Sink (без разметки):
//
//	posts.scheduled → "пост поставлен в очередь на <время>"
//	posts.published → "пост опубликован" (с пометкой о plain-тексте)
//	posts.failed    → "доставка не удалась, пост остаётся в очереди"
//
// Dispatcher повторяет неудачную доставку каждый цикл, поэтому
// уведомления о сбое одного и того же поста не чаще FailureCooldown.
//
// Ошибки обработки:
//   - неизвестный канал, битый payload, неизвестный тип → mq.Permanent (сразу в DLQ)
//   - сбой отправки сообщения → nack с одной повторной попыткой
package notifier
