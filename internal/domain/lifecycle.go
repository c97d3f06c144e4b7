package domain

import (
	"fmt"
	"time"
)

// allowedTransitions lists legal status changes. Cancelled is terminal.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is legal. Staying in the same
// non-terminal status is always allowed.
func CanTransition(from, to ReservationStatus) bool {
	if from == to {
		return from != StatusCancelled
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo changes the status, rejecting illegal moves
func (r *Reservation) TransitionTo(to ReservationStatus, now time.Time) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	if !CanTransition(r.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}

// Cancel moves a pending or confirmed reservation to cancelled.
// Capacity is released because cancelled reservations are not summed.
func (r *Reservation) Cancel(now time.Time) error {
	return r.TransitionTo(StatusCancelled, now)
}

// AttachPaymentOrder records the payment order created by the payment
// collaborator: payment status not_required|failed -> pending.
func (r *Reservation) AttachPaymentOrder(orderRef string, now time.Time) error {
	if orderRef == "" {
		return fmt.Errorf("%w: payment order reference is required", ErrInvalidInput)
	}
	if r.Status != StatusPending || r.PaymentStatus == PaymentPaid {
		return fmt.Errorf("%w: cannot attach payment order to %s/%s reservation",
			ErrInvalidTransition, r.Status, r.PaymentStatus)
	}
	r.PaymentStatus = PaymentPending
	r.PaymentReference = &orderRef
	r.UpdatedAt = now
	return nil
}

// FailPayment marks the payment failed; the reservation keeps its seats
// until cancelled or expired.
func (r *Reservation) FailPayment(now time.Time) error {
	if r.Status != StatusPending || r.PaymentStatus == PaymentPaid {
		return fmt.Errorf("%w: cannot fail payment of %s/%s reservation",
			ErrInvalidTransition, r.Status, r.PaymentStatus)
	}
	r.PaymentStatus = PaymentFailed
	r.UpdatedAt = now
	return nil
}

// ConfirmPayment applies a verified payment: pending -> confirmed, paid.
// expectedAmount is the reservation price; a positive paidAmount must match it.
// Re-confirming with the same reference is a no-op.
func (r *Reservation) ConfirmPayment(paymentRef string, paidAmount, expectedAmount int64, now time.Time) (changed bool, err error) {
	if paymentRef == "" {
		return false, fmt.Errorf("%w: payment reference is required", ErrInvalidInput)
	}
	if r.Status == StatusConfirmed && r.PaymentStatus == PaymentPaid {
		if r.PaymentReference != nil && *r.PaymentReference == paymentRef {
			return false, nil
		}
		return false, fmt.Errorf("%w: reservation already paid with another reference", ErrInvalidTransition)
	}
	if r.Status != StatusPending {
		return false, fmt.Errorf("%w: cannot confirm payment of %s reservation", ErrInvalidTransition, r.Status)
	}
	if paidAmount > 0 && paidAmount != expectedAmount {
		return false, fmt.Errorf("%w: paid %d, expected %d", ErrAmountMismatch, paidAmount, expectedAmount)
	}

	r.Status = StatusConfirmed
	r.PaymentStatus = PaymentPaid
	r.PaymentReference = &paymentRef
	r.AmountPaid = expectedAmount
	r.UpdatedAt = now
	return true, nil
}
