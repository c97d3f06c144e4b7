package create_reservation

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"` // "2026-10-20"
	Time            string  `json:"time"` // "14:00"
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	GuestCount      int     `json:"guestCount"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// CreateReservationResponse созданное бронирование и предварительная стоимость
type CreateReservationResponse struct {
	Reservation     *models.ReservationResponse `json:"reservation"`
	EstimatedAmount int64                       `json:"estimatedAmount"`
	Currency        string                      `json:"currency"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Длительность по умолчанию 60 минут
func (r *CreateReservationRequest) ToUseCaseRequest(defaultDuration int) *createReservation.Request {
	duration := defaultDuration
	if r.DurationMinutes != nil {
		duration = *r.DurationMinutes
	}

	return &createReservation.Request{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Date:            r.Date,
		Time:            r.Time,
		DurationMinutes: duration,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	return &CreateReservationResponse{
		Reservation:     models.FromDomainReservation(resp.Reservation),
		EstimatedAmount: resp.EstimatedAmount,
		Currency:        resp.Currency,
	}
}
