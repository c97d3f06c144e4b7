package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "не указана ссылка на платеж"
	msgAmountMismatch       = "оплаченная сумма не совпадает со стоимостью бронирования"
	msgNotFound             = "бронирование не найдено"
	msgInvalidTransition    = "бронирование нельзя подтвердить в текущем статусе"
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

// Handle POST /api/v1/reservations/{reservationId}/payment/confirm
// Вызывается платежным сервисом после проверки подписи платежа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathUUID(r, handlers.ReservationIDParam)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payment/confirm - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req models.ConfirmPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/payment/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	confirmed, err := h.service.ConfirmPayment(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/payment/confirm - Reservation not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAmountMismatch):
			h.logger.Warn("POST /reservations/{id}/payment/confirm - Amount mismatch: id=%s, amount=%d", id, req.Amount)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("POST /reservations/{id}/payment/confirm - Invalid input: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, reservations.ErrInvalidTransition):
			h.logger.Warn("POST /reservations/{id}/payment/confirm - Invalid transition: id=%s, error=%v", id, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /reservations/{id}/payment/confirm - Failed to confirm payment: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/payment/confirm - Payment confirmed: id=%s, ref=%s", id, req.PaymentReference)
	handlers.RespondJSON(w, http.StatusOK, confirmed)
}
