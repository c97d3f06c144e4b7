package get_availability

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

// SlotAvailabilityResponse занятость одного слота
type SlotAvailabilityResponse struct {
	Time             string `json:"time"`
	Label            string `json:"label"`
	BookedCount      int    `json:"bookedCount"`
	MaxGuestsPerSlot int    `json:"maxGuestsPerSlot"`
	Remaining        int    `json:"remaining"`
	IsFull           bool   `json:"isFull"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date             string                     `json:"date"`
	DurationMinutes  int                        `json:"durationMinutes"`
	Availability     []SlotAvailabilityResponse `json:"availability"`
	TimeSlots        []domain.SlotDescriptor    `json:"timeSlots"`
	MaxGuestsPerSlot int                        `json:"maxGuestsPerSlot"`
	DurationsEnabled domain.DurationsEnabled    `json:"durationsEnabled"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(a *availability.Availability) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Date:             domain.DateKey(a.Date),
		DurationMinutes:  a.Duration.Minutes(),
		Availability:     make([]SlotAvailabilityResponse, 0, len(a.Slots)),
		TimeSlots:        a.TimeSlots,
		MaxGuestsPerSlot: a.MaxGuestsPerSlot,
		DurationsEnabled: a.DurationsEnabled,
	}
	if resp.TimeSlots == nil {
		resp.TimeSlots = []domain.SlotDescriptor{}
	}

	for _, s := range a.Slots {
		resp.Availability = append(resp.Availability, SlotAvailabilityResponse{
			Time:             s.Time.String(),
			Label:            s.Label,
			BookedCount:      s.BookedCount,
			MaxGuestsPerSlot: s.MaxGuestsPerSlot,
			Remaining:        s.Remaining(),
			IsFull:           s.IsFull,
		})
	}

	return resp
}
