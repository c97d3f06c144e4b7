package get_effective_slots

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

// EffectiveSlotsResponse HTTP response model
type EffectiveSlotsResponse struct {
	Date             string                  `json:"date"`
	DurationMinutes  int                     `json:"durationMinutes"`
	TimeSlots        []domain.SlotDescriptor `json:"timeSlots"`
	MaxGuestsPerSlot int                     `json:"maxGuestsPerSlot"`
	DurationsEnabled domain.DurationsEnabled `json:"durationsEnabled"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(e *availability.EffectiveSlots) *EffectiveSlotsResponse {
	slots := e.Slots
	if slots == nil {
		slots = []domain.SlotDescriptor{}
	}
	return &EffectiveSlotsResponse{
		Date:             domain.DateKey(e.Date),
		DurationMinutes:  e.Duration.Minutes(),
		TimeSlots:        slots,
		MaxGuestsPerSlot: e.MaxGuestsPerSlot,
		DurationsEnabled: e.DurationsEnabled,
	}
}
