package domain

import "fmt"

// Pricing per-guest price by slot duration, in minor currency units
type Pricing struct {
	PerGuest30 int64
	PerGuest60 int64
}

// DefaultPricing applies when no price is configured
func DefaultPricing() Pricing {
	return Pricing{PerGuest30: DefaultPricePerGuest, PerGuest60: DefaultPricePerGuest}
}

// PricePerGuest returns the configured price for the duration
func (p Pricing) PricePerGuest(duration SlotDuration) (int64, error) {
	switch duration {
	case Duration30:
		return p.PerGuest30, nil
	case Duration60:
		return p.PerGuest60, nil
	default:
		return 0, fmt.Errorf("%w: no price for duration %d", ErrInvalidInput, duration)
	}
}

// Amount is the reservation price: pricePerGuest(duration) * guests
func (p Pricing) Amount(duration SlotDuration, guests int) (int64, error) {
	perGuest, err := p.PricePerGuest(duration)
	if err != nil {
		return 0, err
	}
	return perGuest * int64(guests), nil
}
