package domain

// CheckCapacity validates a request of requested guests against a slot that
// already holds committed guests under a cap of max.
//
// A request that alone exceeds the cap is ErrGuestLimitExceeded; a request
// that fits alone but not together with committed guests is ErrSlotFull.
// Both carry the remaining seats.
func CheckCapacity(max, committed, requested int) error {
	if requested > max {
		return NewCapacityError(ErrGuestLimitExceeded, max, committed, requested)
	}
	if committed+requested > max {
		return NewCapacityError(ErrSlotFull, max, committed, requested)
	}
	return nil
}
