package set_day_closures

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "слишком много или слишком длинные значения слотов"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
)

var validate = validator.New()

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/days/{date}/closures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := handlers.PathString(r, handlers.DateParam)

	var req SetDayClosuresRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/days/{date}/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.logger.Warn("PUT /admin/days/{date}/closures - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidData)
		return
	}

	saved, err := h.service.SetDayClosures(r.Context(), date, req.ClosedSlotValues)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /admin/days/{date}/closures - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("PUT /admin/days/{date}/closures - Failed to save closures: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/days/{date}/closures - Closures saved: date=%s, count=%d",
		date, len(saved.ClosedSlotValues))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDaySettings(saved.Date, saved.ClosedSlotValues))
}
