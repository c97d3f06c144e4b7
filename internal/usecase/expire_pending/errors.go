package expire_pending

import "errors"

var (
	// ErrInvalidInput некорректные параметры очистки
	ErrInvalidInput = errors.New("expire_pending: invalid options")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("expire_pending: internal error")
)
