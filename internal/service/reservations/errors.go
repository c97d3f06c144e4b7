package reservations

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("reservations: reservation %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrInvalidTransition недопустимая смена статуса
	ErrInvalidTransition = domain.ErrInvalidTransition

	// ErrSlotNotAvailable новое время не входит в эффективные слоты даты
	ErrSlotNotAvailable = domain.ErrSlotNotAvailable

	// ErrGuestLimitExceeded не хватает мест при подтверждении или изменении
	ErrGuestLimitExceeded = domain.ErrGuestLimitExceeded

	// ErrSlotFull не хватает мест в новом слоте
	ErrSlotFull = domain.ErrSlotFull

	// ErrAmountMismatch оплаченная сумма не совпадает со стоимостью
	ErrAmountMismatch = domain.ErrAmountMismatch

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("reservations: internal error")
)

// isDomainError ошибки, которые возвращаются вызывающему без обертки
func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrInvalidInput,
		domain.ErrInvalidTransition,
		domain.ErrSlotNotAvailable,
		domain.ErrGuestLimitExceeded,
		domain.ErrSlotFull,
		domain.ErrAmountMismatch,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
