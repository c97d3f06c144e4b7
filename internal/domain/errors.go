package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Packages wrap them with their own
// sentinels; callers match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDurationDisabled   = errors.New("slot duration is disabled")
	ErrSlotNotAvailable   = errors.New("time slot is not available")
	ErrGuestLimitExceeded = errors.New("guest count exceeds slot capacity")
	ErrSlotFull           = errors.New("slot is full")
	ErrLeadTimeTooShort   = errors.New("booking time is within the minimum lead time")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid reservation status transition")
	ErrAmountMismatch     = errors.New("paid amount does not match reservation price")
)

// CapacityError carries the numbers behind a capacity rejection.
// Kind is ErrSlotFull or ErrGuestLimitExceeded.
type CapacityError struct {
	Kind      error
	Max       int
	Committed int
	Requested int
}

// NewCapacityError builds a capacity rejection of the given kind
func NewCapacityError(kind error, max, committed, requested int) *CapacityError {
	return &CapacityError{Kind: kind, Max: max, Committed: committed, Requested: requested}
}

// Remaining seats at the key, 0 when fully booked
func (e *CapacityError) Remaining() int {
	if r := e.Max - e.Committed; r > 0 {
		return r
	}
	return 0
}

func (e *CapacityError) Error() string {
	remaining := e.Remaining()
	if remaining == 0 {
		return fmt.Sprintf("%v: time slot is fully booked", e.Kind)
	}
	return fmt.Sprintf("%v: only %d spot(s) remaining, requested %d", e.Kind, remaining, e.Requested)
}

func (e *CapacityError) Unwrap() error {
	return e.Kind
}

// RemainingCapacity extracts the remaining-seats payload from an error chain
func RemainingCapacity(err error) (int, bool) {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return capErr.Remaining(), true
	}
	return 0, false
}
