package update_reservation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "некорректные данные бронирования"
	msgNotFound             = "бронирование не найдено"
	msgInvalidTransition    = "недопустимая смена статуса бронирования"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgNotEnoughSeats       = "недостаточно мест в слоте, осталось: %d"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, handlers.ReservationIDParam)
	if err != nil {
		h.logger.Warn("PATCH /admin/reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /admin/reservations/{id} - Reservation not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/reservations/{id} - Invalid input: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, reservations.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /admin/reservations/{id} - Slot not available: id=%s", id)
			handlers.RespondBadRequest(w, msgSlotNotAvailable)

		case errors.Is(err, reservations.ErrInvalidTransition):
			h.logger.Warn("PATCH /admin/reservations/{id} - Invalid transition: id=%s, error=%v", id, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, reservations.ErrSlotFull), errors.Is(err, reservations.ErrGuestLimitExceeded):
			remaining, _ := domain.RemainingCapacity(err)
			h.logger.Warn("PATCH /admin/reservations/{id} - Not enough seats: id=%s, remaining=%d", id, remaining)
			handlers.RespondCapacityError(w, fmt.Sprintf(msgNotEnoughSeats, remaining), remaining)

		default:
			h.logger.Error("PATCH /admin/reservations/{id} - Failed to update reservation: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/reservations/{id} - Reservation updated: id=%s, status=%s", id, updated.Status)
	handlers.RespondJSON(w, http.StatusOK, updated)
}
