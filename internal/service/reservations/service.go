package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями после создания
type Service struct {
	reservationRepo ReservationRepository
	resolver        AvailabilityResolver
	locker          SlotLocker
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	pricing         domain.Pricing
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	resolver AvailabilityResolver,
	locker SlotLocker,
	txManager TransactionManager,
	metrics Metrics,
	pricing domain.Pricing,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		resolver:        resolver,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		pricing:         pricing,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}
	return models.FromDomainReservation(res), nil
}

// List получает бронирования по фильтру статуса и даты
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d reservations", len(list))
	return models.FromDomainReservationList(list), nil
}

// Stats количество бронирований по статусам
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	stats, err := s.reservationRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainStats(stats), nil
}

// Update применяет изменения оператора: статус, дата, время, количество гостей
//
// Вместимость проверяется по итоговому состоянию, если бронирование занимает места
// и изменился ключ слота, количество гостей или статус стал confirmed
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateReservationRequest) (*models.ReservationResponse, error) {
	patch, err := req.ToPatch()
	if err != nil {
		s.logger.Warn("Update: invalid patch for reservation id=%s: %v", id, err)
		return nil, err
	}

	// 1. Ключ слота по текущему состоянию, нужен для блокировки до транзакции
	current, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Update", id, err)
	}
	if patch.IsEmpty() {
		return models.FromDomainReservation(current), nil
	}

	target := current.Key()
	if patch.Date != nil {
		target.Date = *patch.Date
	}
	if patch.Time != nil {
		target.Time = *patch.Time
	}

	unlock, err := s.locker.Lock(ctx, target.String())
	if err != nil {
		s.logger.Warn("Update: failed to acquire slot lock key=%s: %v", target, err)
		return nil, fmt.Errorf("%w: Update - slot lock: %v", ErrInternal, err)
	}
	defer unlock()

	var (
		result *domain.Reservation
		from   domain.ReservationStatus
	)

	// 2. Проверка и сохранение в сериализуемой транзакции по свежему состоянию строки
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Update", id, err)
		}
		from = res.Status

		updated, err := s.applyPatch(txCtx, res, patch)
		if err != nil {
			return err
		}

		saved, err := s.reservationRepo.Update(txCtx, updated)
		if err != nil {
			return s.mapRepoError("Update", id, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	if from != result.Status {
		s.metrics.ReservationTransition(string(from), string(result.Status))
	}

	s.logger.Info("Update: reservation id=%s updated, status=%s, key=%s, guests=%d",
		id, result.Status, result.Key(), result.GuestCount)
	return models.FromDomainReservation(result), nil
}

// applyPatch применяет изменения к копии бронирования и проверяет вместимость
func (s *Service) applyPatch(ctx context.Context, res *domain.Reservation, patch models.UpdatePatch) (*domain.Reservation, error) {
	now := s.timeProvider.Now()
	original := *res
	updated := *res

	if original.IsCancelled() {
		s.logger.Warn("Update: reservation id=%s is cancelled", res.ID)
		return nil, fmt.Errorf("%w: cancelled reservation cannot be changed", ErrInvalidTransition)
	}

	if patch.Status != nil {
		if err := updated.TransitionTo(*patch.Status, now); err != nil {
			s.logger.Warn("Update: reservation id=%s: %v", res.ID, err)
			return nil, err
		}
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Time != nil {
		updated.Time = *patch.Time
	}
	if patch.GuestCount != nil {
		updated.GuestCount = *patch.GuestCount
	}
	updated.UpdatedAt = now

	// Отмена только освобождает места
	if !updated.HoldsCapacity() {
		return &updated, nil
	}

	keyChanged := !updated.Key().Equal(original.Key())
	guestsChanged := updated.GuestCount != original.GuestCount
	confirming := updated.IsConfirmed() && !original.IsConfirmed()
	if !keyChanged && !guestsChanged && !confirming {
		return &updated, nil
	}

	key := updated.Key()
	effective, err := s.resolver.EffectiveSlotsFor(ctx, key.Date, key.Duration)
	if err != nil {
		s.logger.Error("Update: failed to resolve slots for key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Update - resolve slots: %v", ErrInternal, err)
	}

	if keyChanged && !effective.Contains(key.Time) {
		s.logger.Warn("Update: time=%s is not available on %s", key.Time, domain.DateKey(key.Date))
		return nil, fmt.Errorf("%w: %s on %s", ErrSlotNotAvailable, key.Time, domain.DateKey(key.Date))
	}

	if err := s.reservationRepo.LockSlot(ctx, key); err != nil {
		s.logger.Error("Update: failed to lock slot key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Update - lock slot: %v", ErrInternal, err)
	}

	committed, err := s.reservationRepo.SumGuests(ctx, key, &updated.ID)
	if err != nil {
		s.logger.Error("Update: failed to sum guests for key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: Update - sum guests: %v", ErrInternal, err)
	}

	if err := domain.CheckCapacity(effective.MaxGuestsPerSlot, committed, updated.GuestCount); err != nil {
		s.logger.Warn("Update: capacity check failed for reservation id=%s, key=%s, %d/%d taken, requested %d",
			res.ID, key, committed, effective.MaxGuestsPerSlot, updated.GuestCount)
		// Подтверждение без смены ключа и гостей всегда отклоняется как превышение лимита
		if confirming && !keyChanged && !guestsChanged {
			return nil, domain.NewCapacityError(ErrGuestLimitExceeded, effective.MaxGuestsPerSlot, committed, updated.GuestCount)
		}
		return nil, err
	}

	return &updated, nil
}

// ConfirmPayment подтверждает оплату: pending -> confirmed, payment paid
// Повторное подтверждение с той же ссылкой ничего не меняет
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID, req *models.ConfirmPaymentRequest) (*models.ReservationResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("ConfirmPayment: invalid request for reservation id=%s: %v", id, err)
		return nil, err
	}

	var (
		result  *domain.Reservation
		changed bool
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("ConfirmPayment", id, err)
		}

		expected, err := s.pricing.Amount(res.DurationMinutes, res.GuestCount)
		if err != nil {
			return fmt.Errorf("%w: ConfirmPayment - price: %v", ErrInternal, err)
		}

		changed, err = res.ConfirmPayment(req.PaymentReference, req.Amount, expected, s.timeProvider.Now())
		if err != nil {
			s.logger.Warn("ConfirmPayment: reservation id=%s: %v", id, err)
			return err
		}
		if !changed {
			result = res
			return nil
		}

		saved, err := s.reservationRepo.Update(txCtx, res)
		if err != nil {
			return s.mapRepoError("ConfirmPayment", id, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	if changed {
		s.metrics.ReservationTransition(string(domain.StatusPending), string(domain.StatusConfirmed))
		s.logger.Info("ConfirmPayment: reservation id=%s confirmed, ref=%s, amount=%d %s",
			id, req.PaymentReference, result.AmountPaid, result.Currency)
	} else {
		s.logger.Info("ConfirmPayment: reservation id=%s already confirmed with ref=%s", id, req.PaymentReference)
	}

	return models.FromDomainReservation(result), nil
}

// AttachPaymentOrder фиксирует созданный заказ в платежном сервисе
func (s *Service) AttachPaymentOrder(ctx context.Context, id uuid.UUID, req *models.AttachPaymentOrderRequest) (*models.ReservationResponse, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("AttachPaymentOrder: invalid request for reservation id=%s: %v", id, err)
		return nil, err
	}

	return s.mutate(ctx, "AttachPaymentOrder", id, func(res *domain.Reservation) error {
		return res.AttachPaymentOrder(req.OrderReference, s.timeProvider.Now())
	})
}

// FailPayment отмечает неуспешную оплату; места остаются занятыми
func (s *Service) FailPayment(ctx context.Context, id uuid.UUID) (*models.ReservationResponse, error) {
	return s.mutate(ctx, "FailPayment", id, func(res *domain.Reservation) error {
		return res.FailPayment(s.timeProvider.Now())
	})
}

// Cancel отменяет бронирование и освобождает места
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*models.ReservationResponse, error) {
	var from domain.ReservationStatus
	resp, err := s.mutate(ctx, "Cancel", id, func(res *domain.Reservation) error {
		from = res.Status
		return res.Cancel(s.timeProvider.Now())
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReservationTransition(string(from), string(domain.StatusCancelled))
	return resp, nil
}

// Delete удаляет бронирование; занятые места пересчитываются автоматически
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.reservationRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("Delete", id, err)
	}
	s.logger.Info("Delete: reservation id=%s deleted", id)
	return nil
}

// mutate читает бронирование с блокировкой строки, применяет fn и сохраняет
func (s *Service) mutate(ctx context.Context, op string, id uuid.UUID, fn func(res *domain.Reservation) error) (*models.ReservationResponse, error) {
	var result *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError(op, id, err)
		}

		if err := fn(res); err != nil {
			s.logger.Warn("%s: reservation id=%s: %v", op, id, err)
			return err
		}

		saved, err := s.reservationRepo.Update(txCtx, res)
		if err != nil {
			return s.mapRepoError(op, id, err)
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("%s: reservation id=%s, status=%s, payment=%s", op, id, result.Status, result.PaymentStatus)
	return models.FromDomainReservation(result), nil
}

func (s *Service) mapRepoError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, reservationRepo.ErrReservationNotFound) {
		s.logger.Warn("%s: reservation id=%s not found", op, id)
		return ErrReservationNotFound
	}
	s.logger.Error("%s: repository error for reservation id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// wrapTxError оставляет доменные ошибки как есть, остальные оборачивает в ErrInternal
func (s *Service) wrapTxError(err error) error {
	if isDomainError(err) || errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
