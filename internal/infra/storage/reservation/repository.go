package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

const table = "reservations"

var columns = []string{
	"id",
	"name",
	"email",
	"phone",
	"booking_date",
	"booking_time",
	"duration_minutes",
	"guest_count",
	"special_requests",
	"status",
	"payment_status",
	"payment_reference",
	"amount_paid",
	"currency",
	"created_at",
	"updated_at",
}

// Repository репозиторий бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование
// Проверка вместимости должна быть выполнена вызывающей стороной в той же транзакции
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"name",
			"email",
			"phone",
			"booking_date",
			"booking_time",
			"duration_minutes",
			"guest_count",
			"special_requests",
			"status",
			"payment_status",
			"payment_reference",
			"amount_paid",
			"currency",
		).
		Values(
			res.ID,
			res.Name,
			res.Email,
			res.Phone,
			domain.DateKey(res.Date),
			res.Time,
			int(res.DurationMinutes),
			res.GuestCount,
			res.SpecialRequests,
			string(res.Status),
			string(res.PaymentStatus),
			res.PaymentReference,
			res.AmountPaid,
			res.Currency,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// Update сохраняет изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booking_date", domain.DateKey(res.Date)).
		Set("booking_time", res.Time).
		Set("guest_count", res.GuestCount).
		Set("status", string(res.Status)).
		Set("payment_status", string(res.PaymentStatus)).
		Set("payment_reference", res.PaymentReference).
		Set("amount_paid", res.AmountPaid).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	res.UpdatedAt = updatedAt.Time
	return res, nil
}

// Delete удаляет бронирование
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// List возвращает бронирования по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("created_at DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": domain.DateKey(*filter.Date)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryReservations(ctx, executor, "List", query, args)
}

// ListStalePending возвращает неоплаченные pending бронирования, созданные до cutoff
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time, limit uint64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(domain.StatusPending)}).
		Where(squirrel.NotEq{"payment_status": string(domain.PaymentPaid)}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStalePending - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryReservations(ctx, executor, "ListStalePending", query, args)
}

// SumGuests суммирует гостей pending и confirmed бронирований по ключу слота
// excludeID исключает само редактируемое бронирование
func (r *Repository) SumGuests(ctx context.Context, key domain.SlotKey, excludeID *uuid.UUID) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COALESCE(SUM(guest_count), 0)").
		From(table).
		Where(squirrel.Eq{
			"booking_date":     domain.DateKey(key.Date),
			"booking_time":     key.Time,
			"duration_minutes": int(key.Duration),
			"status":           capacityStatuses(),
		})

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SumGuests - build select query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumGuests - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

// SumGuestsByTime суммирует гостей pending и confirmed бронирований по времени слота
func (r *Repository) SumGuestsByTime(ctx context.Context, date time.Time, duration domain.SlotDuration) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("booking_time", "COALESCE(SUM(guest_count), 0)").
		From(table).
		Where(squirrel.Eq{
			"booking_date":     domain.DateKey(date),
			"duration_minutes": int(duration),
			"status":           capacityStatuses(),
		}).
		GroupBy("booking_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SumGuestsByTime - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SumGuestsByTime - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	booked := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			slotTime types.TimeString
			total    int
		)
		if err := rows.Scan(&slotTime, &total); err != nil {
			return nil, fmt.Errorf("%w: SumGuestsByTime - scan row: %v", ErrScanRow, err)
		}
		booked[slotTime] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SumGuestsByTime - rows iteration: %v", ErrScanRow, err)
	}

	return booked, nil
}

// Stats считает бронирования по статусам
func (r *Repository) Stats(ctx context.Context) (*domain.ReservationStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(table).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.ReservationStats{}
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %v", ErrScanRow, err)
		}
		switch domain.ReservationStatus(status) {
		case domain.StatusPending:
			stats.Pending = count
		case domain.StatusConfirmed:
			stats.Confirmed = count
		case domain.StatusCancelled:
			stats.Cancelled = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows iteration: %v", ErrScanRow, err)
	}

	return stats, nil
}

// LockSlot берет транзакционную advisory-блокировку PostgreSQL на ключ слота
// Блокировка снимается при завершении транзакции, поэтому вне транзакции вызов запрещен
func (r *Repository) LockSlot(ctx context.Context, key domain.SlotKey) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key.String()); err != nil {
		return fmt.Errorf("%w: LockSlot - key=%s: %v", ErrExecQuery, key, err)
	}
	return nil
}

func (r *Repository) queryReservations(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, op, err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                  domain.Reservation
		duration             int
		status, payment      string
		specialRequests      sql.NullString
		paymentReference     sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Email,
		&res.Phone,
		&res.Date,
		&res.Time,
		&duration,
		&res.GuestCount,
		&specialRequests,
		&status,
		&payment,
		&paymentReference,
		&res.AmountPaid,
		&res.Currency,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.DurationMinutes = domain.SlotDuration(duration)
	res.Status = domain.ReservationStatus(status)
	res.PaymentStatus = domain.PaymentStatus(payment)
	if specialRequests.Valid {
		res.SpecialRequests = &specialRequests.String
	}
	if paymentReference.Valid {
		res.PaymentReference = &paymentReference.String
	}
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func capacityStatuses() []string {
	out := make([]string, 0, len(domain.CapacityStatuses))
	for _, s := range domain.CapacityStatuses {
		out = append(out, string(s))
	}
	return out
}
