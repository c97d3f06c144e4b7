package get_effective_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

const (
	msgMissingDate     = "не указан параметр date"
	msgInvalidDuration = "некорректный параметр duration, ожидается 30 или 60"
	msgInvalidInput    = "некорректная дата или длительность слота"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots?date=YYYY-MM-DD&duration=30|60
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	duration, err := handlers.QueryDuration(r)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.service.GetEffectiveSlots(r.Context(), date, duration)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid input: date=%s, duration=%d, error=%v", date, duration, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /slots - Failed to resolve slots: date=%s, duration=%d, error=%v", date, duration, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /slots - Slots resolved: date=%s, duration=%d, count=%d", date, duration, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
