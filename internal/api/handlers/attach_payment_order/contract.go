package attach_payment_order

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
)

type ReservationService interface {
	AttachPaymentOrder(ctx context.Context, id uuid.UUID, req *models.AttachPaymentOrderRequest) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
