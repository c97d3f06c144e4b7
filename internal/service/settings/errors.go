package settings

import (
	"errors"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных (например, формат даты)
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrConcurrentUpdate возвращается, когда настройки не удалось обновить из-за конкурентных изменений
	ErrConcurrentUpdate = errors.New("settings: concurrent update, retry later")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
