package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

var validate = validator.New()

// Request модели

// UpdateReservationRequest частичное изменение бронирования оператором
// Отсутствующее поле не меняется
type UpdateReservationRequest struct {
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
	Date       *string `json:"date,omitempty"`
	Time       *string `json:"time,omitempty"`
	GuestCount *int    `json:"guestCount,omitempty" validate:"omitempty,min=1,max=500"`
}

// UpdatePatch разобранное изменение
type UpdatePatch struct {
	Status     *domain.ReservationStatus
	Date       *time.Time
	Time       *types.TimeString
	GuestCount *int
}

// IsEmpty сообщает, что изменений нет
func (p UpdatePatch) IsEmpty() bool {
	return p.Status == nil && p.Date == nil && p.Time == nil && p.GuestCount == nil
}

// ToPatch валидирует запрос и разбирает значения
func (r *UpdateReservationRequest) ToPatch() (UpdatePatch, error) {
	var patch UpdatePatch
	if r == nil {
		return patch, nil
	}

	if r.Status != nil {
		trimmed := strings.TrimSpace(*r.Status)
		r.Status = &trimmed
	}

	if err := validate.Struct(r); err != nil {
		return patch, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidationError(err))
	}

	if r.Status != nil {
		status := domain.ReservationStatus(*r.Status)
		patch.Status = &status
	}
	if r.Date != nil {
		date, err := domain.ParseDate(strings.TrimSpace(*r.Date))
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if r.Time != nil {
		t, err := types.NewTimeStringFromString(strings.TrimSpace(*r.Time))
		if err != nil {
			return patch, fmt.Errorf("%w: invalid time %q: %v", domain.ErrInvalidInput, *r.Time, err)
		}
		patch.Time = &t
	}
	if r.GuestCount != nil {
		guests := *r.GuestCount
		patch.GuestCount = &guests
	}

	return patch, nil
}

// ConfirmPaymentRequest сигнал подтвержденной оплаты от платежного сервиса
type ConfirmPaymentRequest struct {
	PaymentReference string `json:"paymentReference" validate:"required,max=255"`
	Amount           int64  `json:"amount" validate:"min=0"` // 0 - сумма не передана
}

// Validate проверяет запрос
func (r *ConfirmPaymentRequest) Validate() error {
	r.PaymentReference = strings.TrimSpace(r.PaymentReference)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidationError(err))
	}
	return nil
}

// AttachPaymentOrderRequest созданный заказ в платежном сервисе
type AttachPaymentOrderRequest struct {
	OrderReference string `json:"orderReference" validate:"required,max=255"`
}

// Validate проверяет запрос
func (r *AttachPaymentOrderRequest) Validate() error {
	r.OrderReference = strings.TrimSpace(r.OrderReference)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidationError(err))
	}
	return nil
}

// ListReservationsRequest фильтр списка бронирований
type ListReservationsRequest struct {
	Status *string `json:"status,omitempty"`
	Date   *string `json:"date,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationFilter, error) {
	var filter domain.ReservationFilter
	if r == nil {
		return filter, nil
	}

	if r.Status != nil && *r.Status != "" {
		status := domain.ReservationStatus(*r.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *r.Status)
		}
		filter.Status = &status
	}

	if r.Date != nil && *r.Date != "" {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Date             string    `json:"date"` // "2026-10-20"
	Time             string    `json:"time"` // "14:00"
	DurationMinutes  int       `json:"durationMinutes"`
	GuestCount       int       `json:"guestCount"`
	SpecialRequests  *string   `json:"specialRequests,omitempty"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	PaymentReference *string   `json:"paymentReference,omitempty"`
	AmountPaid       int64     `json:"amountPaid"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// StatsResponse количество бронирований по статусам
type StatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:               r.ID.String(),
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Date:             domain.DateKey(r.Date),
		Time:             r.Time.String(),
		DurationMinutes:  r.DurationMinutes.Minutes(),
		GuestCount:       r.GuestCount,
		SpecialRequests:  r.SpecialRequests,
		Status:           string(r.Status),
		PaymentStatus:    string(r.PaymentStatus),
		PaymentReference: r.PaymentReference,
		AmountPaid:       r.AmountPaid,
		Currency:         r.Currency,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}
	return resp
}

// FromDomainStats конвертирует статистику
func FromDomainStats(s *domain.ReservationStats) *StatsResponse {
	if s == nil {
		return &StatsResponse{}
	}
	return &StatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Confirmed: s.Confirmed,
		Cancelled: s.Cancelled,
	}
}

func describeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
