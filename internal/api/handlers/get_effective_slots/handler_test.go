package get_effective_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type fakeService struct {
	gotDate     string
	gotDuration int
	err         error
}

func (f *fakeService) GetEffectiveSlots(_ context.Context, date string, durationMinutes int) (*availability.EffectiveSlots, error) {
	f.gotDate, f.gotDuration = date, durationMinutes
	if f.err != nil {
		return nil, f.err
	}
	return &availability.EffectiveSlots{
		Date:             time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Duration:         domain.SlotDuration(durationMinutes),
		Slots:            []domain.SlotDescriptor{{Value: "14:00", Label: "2:00 PM", Enabled: true}},
		MaxGuestsPerSlot: 24,
		DurationsEnabled: domain.DurationsEnabled{Thirty: true, Sixty: true},
	}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		err          error
		wantStatus   int
		wantDuration int
	}{
		{name: "duration defaults to 60", query: "?date=2026-10-20", wantStatus: http.StatusOK, wantDuration: 60},
		{name: "explicit 30", query: "?date=2026-10-20&duration=30", wantStatus: http.StatusOK, wantDuration: 30},
		{name: "missing date", query: "", wantStatus: http.StatusBadRequest},
		{name: "non numeric duration", query: "?date=2026-10-20&duration=abc", wantStatus: http.StatusBadRequest},
		{name: "invalid input from service", query: "?date=20-10-2026", err: availability.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", query: "?date=2026-10-20", err: availability.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			h := NewHandler(svc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			assert.Equal(t, tt.wantDuration, svc.gotDuration)

			var resp EffectiveSlotsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "2026-10-20", resp.Date)
			require.Len(t, resp.TimeSlots, 1)
			assert.Equal(t, "14:00", resp.TimeSlots[0].Value.String())
			assert.Equal(t, 24, resp.MaxGuestsPerSlot)
		})
	}
}
