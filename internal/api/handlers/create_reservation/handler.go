package create_reservation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgDurationDisabled   = "бронирование слотов выбранной длительности отключено"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgGuestLimitExceeded = "количество гостей превышает вместимость слота (%d мест)"
	msgSlotFullRemaining  = "в выбранном слоте осталось мест: %d"
	msgSlotFull           = "выбранный слот полностью занят"
	msgLeadTimeTooShort   = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(handlers.DefaultDurationMinutes))
	if err != nil {
		h.respondError(w, &req, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%s, date=%s, time=%s, guests=%d",
		result.Reservation.ID, req.Date, req.Time, req.GuestCount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req *CreateReservationRequest, err error) {
	switch {
	case errors.Is(err, createReservation.ErrInvalidInput):
		h.logger.Warn("POST /reservations - Invalid input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, createReservation.ErrDurationDisabled):
		h.logger.Warn("POST /reservations - Duration disabled: %v", err)
		handlers.RespondBadRequest(w, msgDurationDisabled)

	case errors.Is(err, createReservation.ErrSlotNotAvailable):
		h.logger.Warn("POST /reservations - Slot not available: date=%s, time=%s", req.Date, req.Time)
		handlers.RespondBadRequest(w, msgSlotNotAvailable)

	case errors.Is(err, createReservation.ErrLeadTimeTooShort):
		h.logger.Warn("POST /reservations - Too late to book: date=%s, time=%s", req.Date, req.Time)
		handlers.RespondBadRequest(w, msgLeadTimeTooShort)

	case errors.Is(err, createReservation.ErrGuestLimitExceeded):
		var capErr *domain.CapacityError
		if !errors.As(err, &capErr) {
			capErr = &domain.CapacityError{}
		}
		h.logger.Warn("POST /reservations - Guest limit exceeded: date=%s, time=%s, guests=%d, max=%d",
			req.Date, req.Time, req.GuestCount, capErr.Max)
		handlers.RespondCapacityError(w, fmt.Sprintf(msgGuestLimitExceeded, capErr.Max), capErr.Remaining())

	case errors.Is(err, createReservation.ErrSlotFull):
		remaining, _ := domain.RemainingCapacity(err)
		h.logger.Warn("POST /reservations - Slot full: date=%s, time=%s, guests=%d, remaining=%d",
			req.Date, req.Time, req.GuestCount, remaining)
		if remaining == 0 {
			handlers.RespondCapacityError(w, msgSlotFull, 0)
			return
		}
		handlers.RespondCapacityError(w, fmt.Sprintf(msgSlotFullRemaining, remaining), remaining)

	default:
		h.logger.Error("POST /reservations - Failed to create reservation: date=%s, time=%s, error=%v",
			req.Date, req.Time, err)
		handlers.RespondInternalError(w)
	}
}
