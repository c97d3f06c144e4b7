package get_day_closures

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

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

// Handle GET /api/v1/admin/days/{date}/closures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := handlers.PathString(r, handlers.DateParam)

	closed, err := h.service.GetDayClosures(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("GET /admin/days/{date}/closures - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /admin/days/{date}/closures - Failed to get closures: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// дата уже провалидирована сервисом
	day, _ := domain.ParseDate(date)

	h.logger.Info("GET /admin/days/{date}/closures - Closures retrieved: date=%s, count=%d", date, len(closed))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDaySettings(day, closed))
}
