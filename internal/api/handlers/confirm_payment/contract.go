package confirm_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
)

type ReservationService interface {
	ConfirmPayment(ctx context.Context, id uuid.UUID, req *models.ConfirmPaymentRequest) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
