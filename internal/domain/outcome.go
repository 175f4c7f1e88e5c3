package domain

// DeliveryOutcome — результат попытки доставки поста в одном цикле dispatcher.
//
// Жизненный цикл одного поста в цикле:
//
//	Delivering → MARKED
//	           ↘ FAILED (пост остаётся неопубликованным до следующего цикла)
type DeliveryOutcome string

const (
	// OutcomeMarked — пост доставлен и помечен опубликованным.
	OutcomeMarked DeliveryOutcome = "MARKED"

	// OutcomeDeliveredUnmarked — пост доставлен, но отметить его не удалось.
	// В следующем цикле пост будет отправлен повторно (at-least-once).
	OutcomeDeliveredUnmarked DeliveryOutcome = "DELIVERED_UNMARKED"

	// OutcomeFailed — доставка не удалась, пост остаётся в очереди.
	OutcomeFailed DeliveryOutcome = "FAILED"
)

// Delivered возвращает true, если сообщение дошло до канала.
func (o DeliveryOutcome) Delivered() bool {
	switch o {
	case OutcomeMarked, OutcomeDeliveredUnmarked:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление DeliveryOutcome.
func (o DeliveryOutcome) String() string {
	return string(o)
}
