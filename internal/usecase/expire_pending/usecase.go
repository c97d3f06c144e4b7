package expire_pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

var errNotStale = errors.New("reservation is no longer stale")

// UseCase отменяет неоплаченные pending бронирования старше PendingTTL и освобождает места
type UseCase struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
	opts            Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	opts Options,
) (*UseCase, error) {
	if opts.PendingTTL <= 0 {
		return nil, fmt.Errorf("%w: pending ttl must be positive, got %s", ErrInvalidInput, opts.PendingTTL)
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		opts:            opts,
	}, nil
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет один проход очистки
// Каждое бронирование отменяется в своей транзакции, ошибка одного не останавливает остальные
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now()
	cutoff := now.Add(-uc.opts.PendingTTL)

	stale, err := uc.reservationRepo.ListStalePending(ctx, cutoff, uc.opts.BatchSize)
	if err != nil {
		uc.logger.Error("ExpirePending: failed to list stale reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list stale reservations: %v", ErrInternal, err)
	}

	result := &Result{}
	for _, candidate := range stale {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			res, err := uc.reservationRepo.GetByID(txCtx, candidate.ID)
			if err != nil {
				return err
			}

			// За время выборки бронирование могли оплатить или отменить
			if res.Status != domain.StatusPending || res.IsPaid() || !res.CreatedAt.Before(cutoff) {
				return errNotStale
			}

			if err := res.Cancel(now); err != nil {
				return err
			}

			_, err = uc.reservationRepo.Update(txCtx, res)
			return err
		})

		switch {
		case err == nil:
			result.Expired++
			uc.metrics.ReservationExpired()
			uc.metrics.ReservationTransition(string(domain.StatusPending), string(domain.StatusCancelled))
			uc.logger.Info("ExpirePending: reservation id=%s expired, key=%s, guests=%d, created=%s",
				candidate.ID, candidate.Key(), candidate.GuestCount, candidate.CreatedAt.Format(time.RFC3339))
		case errors.Is(err, errNotStale):
			result.Skipped++
		default:
			result.Failed++
			uc.logger.Error("ExpirePending: failed to expire reservation id=%s: %v", candidate.ID, err)
		}
	}

	if len(stale) > 0 {
		uc.logger.Info("ExpirePending: expired=%d, skipped=%d, failed=%d", result.Expired, result.Skipped, result.Failed)
	}

	return result, nil
}
