package create_reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *createReservation.Request
	resp *createReservation.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{"name":"Asha","email":"asha@example.com","phone":"+911234567890","date":"2026-10-20","time":"14:00","guestCount":4}`

func serve(t *testing.T, uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, logger.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createReservation.Response{
		Reservation: &domain.Reservation{
			ID:              domain.NewReservationID(),
			Name:            "Asha",
			DurationMinutes: domain.Duration60,
			GuestCount:      4,
			Time:            "14:00",
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentNotRequired,
			Currency:        "inr",
		},
		EstimatedAmount: 6000,
		Currency:        "inr",
	}}

	rec := serve(t, uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, handlers.DefaultDurationMinutes, uc.got.DurationMinutes)

	var resp CreateReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(6000), resp.EstimatedAmount)
	assert.Equal(t, "pending", resp.Reservation.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		err           error
		wantStatus    int
		wantRemaining *int
	}{
		{
			name:       "malformed body",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"name":"x","extra":1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid input",
			body:       validBody,
			err:        fmt.Errorf("%w: email failed email", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duration disabled",
			body:       validBody,
			err:        domain.ErrDurationDisabled,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "lead time",
			body:       validBody,
			err:        domain.ErrLeadTimeTooShort,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:          "slot full reports remaining",
			body:          validBody,
			err:           domain.NewCapacityError(domain.ErrSlotFull, 24, 20, 10),
			wantStatus:    http.StatusConflict,
			wantRemaining: intPtr(4),
		},
		{
			name:          "fully booked reports zero",
			body:          validBody,
			err:           domain.NewCapacityError(domain.ErrSlotFull, 24, 24, 1),
			wantStatus:    http.StatusConflict,
			wantRemaining: intPtr(0),
		},
		{
			name:          "guest limit",
			body:          validBody,
			err:           domain.NewCapacityError(domain.ErrGuestLimitExceeded, 24, 0, 30),
			wantStatus:    http.StatusConflict,
			wantRemaining: intPtr(24),
		},
		{
			name:       "internal",
			body:       validBody,
			err:        createReservation.ErrInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.wantRemaining, body.Remaining)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
