package repo

import (
	"errors"
	"fmt"
)

// Общие ошибки репозиториев.
var (
	// ErrNotFound — запись не найдена в БД.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable — временный сбой хранилища (I/O, соединение, таймаут).
	// Вызывающий код считает состояние неизменённым и может повторить операцию.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptRow — строку из БД не удалось собрать в доменное значение.
	// Повтор не поможет: данные нужно исправить.
	ErrCorruptRow = errors.New("corrupt row")
)

// unavailable оборачивает ошибку драйвера в ErrStorageUnavailable,
// сохраняя исходную причину для errors.Is/errors.As.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
