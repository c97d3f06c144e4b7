package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// ReservationStatus lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus state of the payment attached to a reservation
type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentPaid        PaymentStatus = "paid"
	PaymentFailed      PaymentStatus = "failed"
	PaymentNotRequired PaymentStatus = "not_required"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentNotRequired:
		return true
	}
	return false
}

// Reservation is a party of guests holding seats at one slot key.
type Reservation struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            string
	Date             time.Time
	Time             types.TimeString
	DurationMinutes  SlotDuration
	GuestCount       int
	SpecialRequests  *string
	Status           ReservationStatus
	PaymentStatus    PaymentStatus
	PaymentReference *string
	AmountPaid       int64
	Currency         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewReservationID generates an id for a new reservation
func NewReservationID() uuid.UUID {
	return uuid.New()
}

// Key returns the capacity group of the reservation
func (r *Reservation) Key() SlotKey {
	return SlotKey{Date: r.Date, Time: r.Time, Duration: r.DurationMinutes}
}

// HoldsCapacity reports whether the guests count toward the slot cap
func (r *Reservation) HoldsCapacity() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

func (r *Reservation) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}

// ReservationFilter optional criteria for listing reservations
type ReservationFilter struct {
	Status *ReservationStatus
	Date   *time.Time
}

// ReservationStats totals per status
type ReservationStats struct {
	Total     int
	Pending   int
	Confirmed int
	Cancelled int
}
