package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	resolver        AvailabilityResolver
	locker          SlotLocker
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	opts            Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resolver AvailabilityResolver,
	locker SlotLocker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	if opts.Location == nil {
		opts.Location = DefaultOptions().Location
	}
	if opts.Currency == "" {
		opts.Currency = domain.DefaultCurrency
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		resolver:        resolver,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		opts:            opts,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
//
// Проверка вместимости и вставка выполняются атомарно для ключа (дата, время, длительность):
// внутрипроцессная блокировка ключа, advisory-блокировка PostgreSQL и сериализуемая транзакция
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.ReservationRejected(rejectionReason(err))
		return nil, err
	}
	uc.metrics.ReservationCreated(resp.Reservation.DurationMinutes.Minutes())
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	parsed, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	key := domain.SlotKey{Date: parsed.date, Time: parsed.time, Duration: parsed.duration}
	uc.logger.Info("CreateReservation: date=%s, time=%s, duration=%d, guests=%d",
		req.Date, parsed.time, parsed.duration, req.GuestCount)

	// 2. Эффективные слоты даты
	effective, err := uc.resolver.EffectiveSlotsFor(ctx, parsed.date, parsed.duration)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to resolve slots for key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	if !effective.DurationsEnabled.IsEnabled(parsed.duration) {
		uc.logger.Warn("CreateReservation: duration=%d is disabled", parsed.duration)
		return nil, fmt.Errorf("%w: %d-minute slots are turned off", ErrDurationDisabled, parsed.duration)
	}

	if !effective.Contains(parsed.time) {
		uc.logger.Warn("CreateReservation: time=%s is not available on %s", parsed.time, req.Date)
		return nil, fmt.Errorf("%w: %s on %s", ErrSlotNotAvailable, parsed.time, req.Date)
	}

	// 3. Ключ слота захватывается до начала транзакции
	unlock, err := uc.locker.Lock(ctx, key.String())
	if err != nil {
		uc.logger.Warn("CreateReservation: failed to acquire slot lock key=%s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Reservation

	// 4. Проверка вместимости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Блокировка ключа между экземплярами сервиса
		if err := uc.reservationRepo.LockSlot(txCtx, key); err != nil {
			uc.logger.Error("CreateReservation: failed to lock slot key=%s: %v", key, err)
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		// 4.2. Занятые места по pending и confirmed бронированиям
		committed, err := uc.reservationRepo.SumGuests(txCtx, key, nil)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to sum guests for key=%s: %v", key, err)
			return fmt.Errorf("%w: failed to sum guests: %v", ErrInternal, err)
		}

		if err := domain.CheckCapacity(effective.MaxGuestsPerSlot, committed, req.GuestCount); err != nil {
			uc.logger.Warn("CreateReservation: capacity check failed for key=%s, %d/%d taken, requested %d",
				key, committed, effective.MaxGuestsPerSlot, req.GuestCount)
			return err
		}

		// 4.3. Минимальное время до начала слота
		now := uc.timeProvider.Now()
		if err := validateLeadTime(parsed.date, parsed.time, now, uc.opts.Location, uc.opts.LeadTime); err != nil {
			uc.logger.Warn("CreateReservation: lead time check failed: %v", err)
			return err
		}

		// 4.4. Сохраняем бронирование
		reservation := &domain.Reservation{
			ID:              domain.NewReservationID(),
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Date:            parsed.date,
			Time:            parsed.time,
			DurationMinutes: parsed.duration,
			GuestCount:      req.GuestCount,
			SpecialRequests: req.SpecialRequests,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentNotRequired,
			Currency:        uc.opts.Currency,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	amount, err := uc.opts.Pricing.Amount(result.DurationMinutes, result.GuestCount)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to price reservation id=%s: %v", result.ID, err)
		return nil, fmt.Errorf("%w: failed to price reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%s, amount=%d %s",
		result.ID, amount, result.Currency)

	return &Response{
		Reservation:     result,
		EstimatedAmount: amount,
		Currency:        result.Currency,
	}, nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrSlotFull) ||
		errors.Is(err, ErrGuestLimitExceeded) ||
		errors.Is(err, ErrLeadTimeTooShort)
}
