package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

const (
	globalTable = "global_settings"
	dayTable    = "day_settings"

	// pgUniqueViolation код ошибки PostgreSQL для нарушения уникальности
	pgUniqueViolation = "23505"
)

var globalColumns = []string{
	"id",
	"slots_30",
	"slots_60",
	"max_guests_per_slot",
	"thirty_minutes_enabled",
	"sixty_minutes_enabled",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий глобальных настроек и закрытий по дням
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetGlobal получает единственную запись глобальных настроек
func (r *Repository) GetGlobal(ctx context.Context) (*domain.GlobalSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(globalColumns...).
		From(globalTable).
		Where(squirrel.Eq{"id": domain.GlobalSettingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetGlobal - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s                    domain.GlobalSettings
		slots30, slots60     []byte
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&slots30,
		&slots60,
		&s.MaxGuestsPerSlot,
		&s.DurationsEnabled.Thirty,
		&s.DurationsEnabled.Sixty,
		&s.Version,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGlobalSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetGlobal - scan settings: %v", ErrScanRow, err)
	}

	if s.Slots30, err = decodeSlots(slots30); err != nil {
		return nil, fmt.Errorf("%w: GetGlobal - decode slots_30: %v", ErrScanRow, err)
	}
	if s.Slots60, err = decodeSlots(slots60); err != nil {
		return nil, fmt.Errorf("%w: GetGlobal - decode slots_60: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// CreateGlobal вставляет строку глобальных настроек с фиксированным id
// При конкурентном создании возвращает ErrGlobalSettingsExists,
// вызывающая сторона должна перечитать запись
func (r *Repository) CreateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots30, slots60, err := encodeSlotLists(s)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGlobal - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert(globalTable).
		Columns(
			"id",
			"slots_30",
			"slots_60",
			"max_guests_per_slot",
			"thirty_minutes_enabled",
			"sixty_minutes_enabled",
		).
		Values(
			domain.GlobalSettingsID,
			slots30,
			slots60,
			s.MaxGuestsPerSlot,
			s.DurationsEnabled.Thirty,
			s.DurationsEnabled.Sixty,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGlobal - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.Version, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGlobalSettingsExists
		}
		return nil, fmt.Errorf("%w: CreateGlobal - execute insert: %v", ErrExecQuery, err)
	}

	s.ID = domain.GlobalSettingsID
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// UpdateGlobal перезаписывает настройки, если версия не изменилась с момента чтения
// (оптимистичная блокировка). Иначе возвращает ErrVersionConflict
func (r *Repository) UpdateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots30, slots60, err := encodeSlotLists(s)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateGlobal - %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Update(globalTable).
		Set("slots_30", slots30).
		Set("slots_60", slots60).
		Set("max_guests_per_slot", s.MaxGuestsPerSlot).
		Set("thirty_minutes_enabled", s.DurationsEnabled.Thirty).
		Set("sixty_minutes_enabled", s.DurationsEnabled.Sixty).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": domain.GlobalSettingsID, "version": s.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateGlobal - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateGlobal - execute update: %v", ErrExecQuery, err)
	}

	s.UpdatedAt = updatedAt.Time
	return s, nil
}

// GetDay получает закрытия слотов на дату
func (r *Repository) GetDay(ctx context.Context, date time.Time) (*domain.DaySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "closed_slot_values", "created_at", "updated_at").
		From(dayTable).
		Where(squirrel.Eq{"date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - build select query: %v", ErrBuildQuery, err)
	}

	day, err := scanDay(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDaySettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDay - scan day settings: %v", ErrScanRow, err)
	}

	return day, nil
}

// UpsertDay создает или заменяет список закрытых слотов на дату
func (r *Repository) UpsertDay(ctx context.Context, day *domain.DaySettings) (*domain.DaySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(dayTable).
		Columns("date", "closed_slot_values").
		Values(domain.DateKey(day.Date), pq.Array(timeStrings(day.ClosedSlotValues))).
		Suffix("ON CONFLICT (date) DO UPDATE SET " +
			"closed_slot_values = EXCLUDED.closed_slot_values, updated_at = NOW() " +
			"RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertDay - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertDay - execute upsert: %v", ErrExecQuery, err)
	}

	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time
	return day, nil
}

// DeleteDay удаляет запись даты. Возвращает false, если записи не было
func (r *Repository) DeleteDay(ctx context.Context, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(dayTable).
		Where(squirrel.Eq{"date": domain.DateKey(date)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: DeleteDay - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: DeleteDay - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// ListDays возвращает все записи закрытий, отсортированные по дате
func (r *Repository) ListDays(ctx context.Context) ([]*domain.DaySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "closed_slot_values", "created_at", "updated_at").
		From(dayTable).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.DaySettings, 0)
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDays - scan day settings: %v", ErrScanRow, err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDays - rows iteration: %v", ErrScanRow, err)
	}

	return days, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDay(row rowScanner) (*domain.DaySettings, error) {
	var (
		day                  domain.DaySettings
		closed               []string
		createdAt, updatedAt sql.NullTime
	)

	if err := row.Scan(&day.Date, pq.Array(&closed), &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	day.ClosedSlotValues = make([]types.TimeString, 0, len(closed))
	for _, v := range closed {
		day.ClosedSlotValues = append(day.ClosedSlotValues, types.TimeString(v))
	}
	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time

	return &day, nil
}

func encodeSlotLists(s *domain.GlobalSettings) ([]byte, []byte, error) {
	slots30, err := encodeSlots(s.Slots30)
	if err != nil {
		return nil, nil, fmt.Errorf("slots_30: %v", err)
	}
	slots60, err := encodeSlots(s.Slots60)
	if err != nil {
		return nil, nil, fmt.Errorf("slots_60: %v", err)
	}
	return slots30, slots60, nil
}

func encodeSlots(slots []domain.SlotDescriptor) ([]byte, error) {
	if slots == nil {
		slots = []domain.SlotDescriptor{}
	}
	return json.Marshal(slots)
}

func decodeSlots(raw []byte) ([]domain.SlotDescriptor, error) {
	slots := make([]domain.SlotDescriptor, 0)
	if len(raw) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func timeStrings(values []types.TimeString) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
