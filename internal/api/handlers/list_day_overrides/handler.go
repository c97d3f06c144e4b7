package list_day_overrides

import (
	"net/http"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

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

// Handle GET /api/v1/admin/days
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days, err := h.service.ListDayOverrides(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/days - Failed to list day overrides: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/days - Day overrides retrieved: count=%d", len(days))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDaySettingsList(days))
}
