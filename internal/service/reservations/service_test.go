package reservations

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/keylock"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Reservation
	seq   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]*domain.Reservation)}
}

func (r *memoryRepo) add(res *domain.Reservation) *domain.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.CreatedAt = time.Date(2026, 10, 1, 0, 0, r.seq, 0, time.UTC)
	stored := *res
	r.items[res.ID] = &stored
	return res
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	out := *res
	return &out, nil
}

func (r *memoryRepo) Update(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[res.ID]; !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	stored := *res
	r.items[res.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Reservation
	for _, res := range r.items {
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		if filter.Date != nil && domain.DateKey(res.Date) != domain.DateKey(*filter.Date) {
			continue
		}
		item := *res
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) Stats(_ context.Context) (*domain.ReservationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.ReservationStats{}
	for _, res := range r.items {
		stats.Total++
		switch res.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

func (r *memoryRepo) SumGuests(_ context.Context, key domain.SlotKey, excludeID *uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, res := range r.items {
		if !res.HoldsCapacity() || !res.Key().Equal(key) {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		total += res.GuestCount
	}
	return total, nil
}

func (r *memoryRepo) LockSlot(_ context.Context, _ domain.SlotKey) error {
	return nil
}

type fakeResolver struct {
	global   *domain.GlobalSettings
	closures map[string]map[string]struct{}
}

func (f *fakeResolver) EffectiveSlotsFor(_ context.Context, date time.Time, duration domain.SlotDuration) (*availability.EffectiveSlots, error) {
	closed := make(map[string]struct{})
	for v := range f.closures[domain.DateKey(date)] {
		closed[v] = struct{}{}
	}
	var slots []domain.SlotDescriptor
	for _, s := range f.global.SlotsFor(duration) {
		if _, isClosed := closed[string(s.Value)]; isClosed || !s.Enabled {
			continue
		}
		slots = append(slots, s)
	}
	return &availability.EffectiveSlots{
		Date:             date,
		Duration:         duration,
		Slots:            slots,
		MaxGuestsPerSlot: f.global.EffectiveMaxGuests(),
		DurationsEnabled: f.global.DurationsEnabled,
	}, nil
}

type noopTxManager struct{}

func (noopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (noopTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	transitions []string
}

func (m *fakeMetrics) ReservationTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var (
	testNow  = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
)

type testEnv struct {
	svc      *Service
	repo     *memoryRepo
	resolver *fakeResolver
	metrics  *fakeMetrics
}

func newTestEnv(t *testing.T, maxGuests int) *testEnv {
	t.Helper()
	global := domain.NewDefaultGlobalSettings()
	global.MaxGuestsPerSlot = maxGuests

	env := &testEnv{
		repo:     newMemoryRepo(),
		resolver: &fakeResolver{global: global, closures: map[string]map[string]struct{}{}},
		metrics:  &fakeMetrics{},
	}
	env.svc = NewService(env.repo, env.resolver, keylock.New(), noopTxManager{}, env.metrics,
		domain.DefaultPricing(), logger.NewNop()).
		WithTimeProvider(fixedTime{now: testNow})
	return env
}

func (e *testEnv) seed(status domain.ReservationStatus, guests int) *domain.Reservation {
	return e.repo.add(&domain.Reservation{
		Name:            "Guest",
		Email:           "guest@example.com",
		Phone:           "+910000000000",
		Date:            testDate,
		Time:            "14:00",
		DurationMinutes: domain.Duration60,
		GuestCount:      guests,
		Status:          status,
		PaymentStatus:   domain.PaymentNotRequired,
		Currency:        "inr",
	})
}

func TestService_Update_ConfirmByStatus(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 4)

	got, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, []string{"pending->confirmed"}, env.metrics.transitions)
}

func TestService_Update_ConfirmOverbookedSlot(t *testing.T) {
	env := newTestEnv(t, 10)
	env.seed(domain.StatusConfirmed, 8)
	res := env.seed(domain.StatusPending, 4) // записано до снижения лимита

	_, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{
		Status: ptr.Ptr("confirmed"),
	})
	require.ErrorIs(t, err, ErrGuestLimitExceeded)

	remaining, ok := domain.RemainingCapacity(err)
	require.True(t, ok)
	assert.Equal(t, 2, remaining)

	stored, _ := env.repo.GetByID(context.Background(), res.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestService_Update_GuestCount(t *testing.T) {
	env := newTestEnv(t, 24)
	env.seed(domain.StatusConfirmed, 16)
	res := env.seed(domain.StatusConfirmed, 4)

	got, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{GuestCount: ptr.Ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, got.GuestCount)

	_, err = env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{GuestCount: ptr.Ptr(9)})
	require.ErrorIs(t, err, ErrSlotFull)
	remaining, ok := domain.RemainingCapacity(err)
	require.True(t, ok)
	assert.Equal(t, 8, remaining)
}

func TestService_Update_MoveToAnotherSlot(t *testing.T) {
	env := newTestEnv(t, 10)
	res := env.seed(domain.StatusConfirmed, 6)
	env.repo.add(&domain.Reservation{
		Date: testDate, Time: "16:00", DurationMinutes: domain.Duration60,
		GuestCount: 6, Status: domain.StatusPending, PaymentStatus: domain.PaymentNotRequired,
	})

	_, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{Time: ptr.Ptr("16:00")})
	require.ErrorIs(t, err, ErrSlotFull)

	got, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{
		Date: ptr.Ptr("2026-10-22"),
		Time: ptr.Ptr("16:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-22", got.Date)
	assert.Equal(t, "16:00", got.Time)

	// старый слот освободился
	total, _ := env.repo.SumGuests(context.Background(), domain.SlotKey{Date: testDate, Time: "14:00", Duration: domain.Duration60}, nil)
	assert.Equal(t, 0, total)
}

func TestService_Update_ClosedSlot(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 2)
	env.resolver.closures["2026-10-21"] = map[string]struct{}{"18:00": {}}

	_, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{Time: ptr.Ptr("18:00")})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	_, err = env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{Time: ptr.Ptr("18:30")})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestService_Update_CancelReleasesCapacity(t *testing.T) {
	env := newTestEnv(t, 24)
	env.seed(domain.StatusConfirmed, 20)
	res := env.seed(domain.StatusConfirmed, 4)

	got, err := env.svc.Update(context.Background(), res.ID, &models.UpdateReservationRequest{Status: ptr.Ptr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	total, _ := env.repo.SumGuests(context.Background(), res.Key(), nil)
	assert.Equal(t, 20, total)
}

func TestService_Update_CancelledIsTerminal(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusCancelled, 2)

	for _, req := range []*models.UpdateReservationRequest{
		{Status: ptr.Ptr("pending")},
		{Status: ptr.Ptr("confirmed")},
		{Status: ptr.Ptr("cancelled")},
		{GuestCount: ptr.Ptr(3)},
	} {
		_, err := env.svc.Update(context.Background(), res.ID, req)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestService_Update_InvalidPatch(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 2)

	tests := []struct {
		name string
		req  *models.UpdateReservationRequest
	}{
		{name: "unknown status", req: &models.UpdateReservationRequest{Status: ptr.Ptr("done")}},
		{name: "zero guests", req: &models.UpdateReservationRequest{GuestCount: ptr.Ptr(0)}},
		{name: "bad date", req: &models.UpdateReservationRequest{Date: ptr.Ptr("2026/10/22")}},
		{name: "bad time", req: &models.UpdateReservationRequest{Time: ptr.Ptr("noon")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Update(context.Background(), res.ID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	env := newTestEnv(t, 24)

	_, err := env.svc.Update(context.Background(), uuid.New(), &models.UpdateReservationRequest{GuestCount: ptr.Ptr(2)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ConfirmPayment(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 4)

	_, err := env.svc.ConfirmPayment(context.Background(), res.ID, &models.ConfirmPaymentRequest{
		PaymentReference: "pay_1", Amount: 5000,
	})
	require.ErrorIs(t, err, ErrAmountMismatch)

	got, err := env.svc.ConfirmPayment(context.Background(), res.ID, &models.ConfirmPaymentRequest{
		PaymentReference: "pay_1", Amount: 6000,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.Equal(t, int64(6000), got.AmountPaid)
	require.NotNil(t, got.PaymentReference)
	assert.Equal(t, "pay_1", *got.PaymentReference)

	// повтор с той же ссылкой
	again, err := env.svc.ConfirmPayment(context.Background(), res.ID, &models.ConfirmPaymentRequest{PaymentReference: "pay_1"})
	require.NoError(t, err)
	assert.Equal(t, got.AmountPaid, again.AmountPaid)
	assert.Equal(t, []string{"pending->confirmed"}, env.metrics.transitions)

	_, err = env.svc.ConfirmPayment(context.Background(), res.ID, &models.ConfirmPaymentRequest{PaymentReference: "pay_2"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_ConfirmPayment_Validation(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 4)

	_, err := env.svc.ConfirmPayment(context.Background(), res.ID, &models.ConfirmPaymentRequest{PaymentReference: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	cancelled := env.seed(domain.StatusCancelled, 2)
	_, err = env.svc.ConfirmPayment(context.Background(), cancelled.ID, &models.ConfirmPaymentRequest{PaymentReference: "pay_1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_PaymentOrderFlow(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusPending, 2)

	got, err := env.svc.AttachPaymentOrder(context.Background(), res.ID, &models.AttachPaymentOrderRequest{OrderReference: "order_1"})
	require.NoError(t, err)
	assert.Equal(t, "pending", got.PaymentStatus)
	assert.Equal(t, "order_1", *got.PaymentReference)

	got, err = env.svc.FailPayment(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.PaymentStatus)
	assert.Equal(t, "pending", got.Status)

	// повторная попытка оплаты
	got, err = env.svc.AttachPaymentOrder(context.Background(), res.ID, &models.AttachPaymentOrderRequest{OrderReference: "order_2"})
	require.NoError(t, err)
	assert.Equal(t, "order_2", *got.PaymentReference)

	_, err = env.svc.AttachPaymentOrder(context.Background(), res.ID, &models.AttachPaymentOrderRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusConfirmed, 4)

	got, err := env.svc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
	assert.Equal(t, []string{"confirmed->cancelled"}, env.metrics.transitions)

	_, err = env.svc.Cancel(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.svc.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_Delete(t *testing.T) {
	env := newTestEnv(t, 24)
	res := env.seed(domain.StatusConfirmed, 4)

	require.NoError(t, env.svc.Delete(context.Background(), res.ID))

	_, err := env.svc.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, env.svc.Delete(context.Background(), res.ID), domain.ErrNotFound)
}

func TestService_ListAndStats(t *testing.T) {
	env := newTestEnv(t, 24)
	env.seed(domain.StatusPending, 1)
	env.seed(domain.StatusConfirmed, 2)
	env.seed(domain.StatusConfirmed, 3)
	env.repo.add(&domain.Reservation{
		Date: testDate.AddDate(0, 0, 1), Time: "12:00", DurationMinutes: domain.Duration30,
		GuestCount: 1, Status: domain.StatusCancelled, PaymentStatus: domain.PaymentNotRequired,
	})

	all, err := env.svc.List(context.Background(), &models.ListReservationsRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 4)

	confirmed, err := env.svc.List(context.Background(), &models.ListReservationsRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	assert.Len(t, confirmed.Reservations, 2)

	byDate, err := env.svc.List(context.Background(), &models.ListReservationsRequest{Date: ptr.Ptr("2026-10-22")})
	require.NoError(t, err)
	require.Len(t, byDate.Reservations, 1)
	assert.Equal(t, "cancelled", byDate.Reservations[0].Status)

	_, err = env.svc.List(context.Background(), &models.ListReservationsRequest{Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stats, err := env.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.StatsResponse{Total: 4, Pending: 1, Confirmed: 2, Cancelled: 1}, stats)
}
