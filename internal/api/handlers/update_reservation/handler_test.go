package update_reservation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type fakeService struct {
	gotID uuid.UUID
	err   error
}

func (f *fakeService) Update(_ context.Context, id uuid.UUID, req *models.UpdateReservationRequest) (*models.ReservationResponse, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReservationResponse{ID: id.String(), Status: *req.Status}, nil
}

func serve(svc *fakeService, id, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/admin/reservations/{reservationId}", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/reservations/"+id, strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{name: "ok", id: id.String(), wantStatus: http.StatusOK},
		{name: "bad id", id: "not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "not found", id: id.String(), err: reservations.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "cancelled is terminal", id: id.String(), err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
		{name: "slot not available", id: id.String(), err: domain.ErrSlotNotAvailable, wantStatus: http.StatusBadRequest},
		{name: "internal", id: id.String(), err: reservations.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := serve(svc, tt.id, `{"status":"confirmed"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, id, svc.gotID)
			}
		})
	}
}

func TestHandle_CapacityRemaining(t *testing.T) {
	svc := &fakeService{err: domain.NewCapacityError(domain.ErrGuestLimitExceeded, 24, 22, 4)}
	rec := serve(svc, uuid.NewString(), `{"status":"confirmed"}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Remaining)
	assert.Equal(t, 2, *body.Remaining)
}
