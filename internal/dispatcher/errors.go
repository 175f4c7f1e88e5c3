package dispatcher

import "errors"

// Ошибки dispatcher.
var (
	// ErrCycleInProgress — предыдущий цикл ещё выполняется, тик пропущен.
	ErrCycleInProgress = errors.New("dispatcher cycle already in progress")

	// ErrInvalidSchedule — расписание цикла не распознано.
	ErrInvalidSchedule = errors.New("invalid dispatch schedule")
)
