package domain

import "errors"

// Ошибки валидации доменных значений.
var (
	// ErrInvalidMediaKind — неизвестный тип вложения.
	ErrInvalidMediaKind = errors.New("invalid media kind")

	// ErrInvalidMedia — вложение задано не полностью.
	ErrInvalidMedia = errors.New("invalid media")

	// ErrParse — значение не удалось разобрать.
	ErrParse = errors.New("parse error")
)
