package clear_day_closures

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings"
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

// Handle DELETE /api/v1/admin/days/{date}/closures
// Отсутствие записи не ошибка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date := handlers.PathString(r, handlers.DateParam)

	if err := h.service.ClearDayClosures(r.Context(), date); err != nil {
		switch {
		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("DELETE /admin/days/{date}/closures - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("DELETE /admin/days/{date}/closures - Failed to clear closures: date=%s, error=%v", date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/days/{date}/closures - Closures cleared: date=%s", date)
	handlers.RespondNoContent(w)
}
