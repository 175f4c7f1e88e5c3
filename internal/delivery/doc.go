// Package delivery описывает Delivery Sink — внешнюю возможность публикации
// в канал — и её реализацию поверх Telegram Bot API.
//
// Ошибки Sink непрозрачны для dispatcher, кроме одного класса:
//   - ErrFormatRejected — канал отверг разметку (например, битый Markdown);
//     dispatcher один раз повторяет отправку без разметки.
//   - ErrDeliveryFailed — всё остальное (права, сеть, лимиты).
package delivery
