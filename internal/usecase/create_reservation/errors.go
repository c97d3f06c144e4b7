package create_reservation

import (
	"errors"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = domain.ErrInvalidInput

	// ErrDurationDisabled длительность выключена администратором
	ErrDurationDisabled = domain.ErrDurationDisabled

	// ErrSlotNotAvailable время не входит в эффективные слоты даты
	ErrSlotNotAvailable = domain.ErrSlotNotAvailable

	// ErrGuestLimitExceeded количество гостей превышает лимит слота
	ErrGuestLimitExceeded = domain.ErrGuestLimitExceeded

	// ErrSlotFull в слоте не хватает мест
	ErrSlotFull = domain.ErrSlotFull

	// ErrLeadTimeTooShort до начала слота осталось меньше минимального времени
	ErrLeadTimeTooShort = domain.ErrLeadTimeTooShort

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// Причины отказа для метрик
const (
	reasonInvalidInput     = "invalid_input"
	reasonDurationDisabled = "duration_disabled"
	reasonSlotNotAvailable = "slot_not_available"
	reasonGuestLimit       = "guest_limit_exceeded"
	reasonSlotFull         = "slot_full"
	reasonLeadTime         = "lead_time_too_short"
	reasonInternal         = "internal"
)

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return reasonInvalidInput
	case errors.Is(err, ErrDurationDisabled):
		return reasonDurationDisabled
	case errors.Is(err, ErrSlotNotAvailable):
		return reasonSlotNotAvailable
	case errors.Is(err, ErrGuestLimitExceeded):
		return reasonGuestLimit
	case errors.Is(err, ErrSlotFull):
		return reasonSlotFull
	case errors.Is(err, ErrLeadTimeTooShort):
		return reasonLeadTime
	default:
		return reasonInternal
	}
}
