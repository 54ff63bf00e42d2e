package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний стилистов и журнала дневной нагрузки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetStylistSchedule получает активное расписание стилиста на день недели
func (r *Repository) GetStylistSchedule(ctx context.Context, stylistID string, weekday domain.Weekday) (*domain.StylistSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"stylist_id",
		"weekday",
		"workload_maximum",
		"is_active",
	).
		From("stylist_schedules").
		Where(squirrel.Eq{"stylist_id": stylistID, "weekday": weekday, "is_active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistSchedule - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.StylistSchedule
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.StylistID,
		&s.Weekday,
		&s.WorkloadMaximum,
		&s.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylistSchedule - scan schedule: %w", ErrExecQuery, err)
	}

	return &s, nil
}

// GetReservedWorkload возвращает уже зарезервированные единицы нагрузки стилиста на дату.
// Отсутствие строки в журнале означает ноль
func (r *Repository) GetReservedWorkload(ctx context.Context, stylistID string, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("reserved_units").
		From("stylist_workload").
		Where(squirrel.Eq{"stylist_id": stylistID, "work_date": workDate(date)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetReservedWorkload - build select query: %v", ErrBuildQuery, err)
	}

	var reserved int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&reserved)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetReservedWorkload - scan reserved units: %w", ErrExecQuery, err)
	}

	return reserved, nil
}

// ReserveWorkload атомарно добавляет units к нагрузке стилиста на дату, если итог не превышает maximum.
// Проверка и запись выполняются одним условным upsert, поэтому два конкурентных
// резервирования не могут вместе превысить лимит.
// Возвращает новое значение зарезервированной нагрузки
func (r *Repository) ReserveWorkload(ctx context.Context, stylistID string, date time.Time, units, maximum int) (int, error) {
	if units < 0 {
		return 0, ErrInvalidUnits
	}
	if units > maximum {
		return 0, fmt.Errorf("%w: stylist %s needs %d of %d units", ErrCapacityExceeded, stylistID, units, maximum)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("stylist_workload").
		Columns("stylist_id", "work_date", "reserved_units").
		Values(stylistID, workDate(date), units).
		Suffix(
			"ON CONFLICT (stylist_id, work_date) DO UPDATE "+
				"SET reserved_units = stylist_workload.reserved_units + EXCLUDED.reserved_units, updated_at = now() "+
				"WHERE stylist_workload.reserved_units + EXCLUDED.reserved_units <= ? "+
				"RETURNING reserved_units",
			maximum,
		).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ReserveWorkload - build upsert query: %v", ErrBuildQuery, err)
	}

	var reserved int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&reserved)
	if errors.Is(err, sql.ErrNoRows) {
		// условие WHERE не выполнилось: лимит исчерпан
		return 0, fmt.Errorf("%w: stylist %s on %s", ErrCapacityExceeded, stylistID, workDate(date))
	}
	if err != nil {
		return 0, fmt.Errorf("%w: ReserveWorkload - execute upsert: %w", ErrExecQuery, err)
	}

	return reserved, nil
}

// ReleaseWorkload возвращает units в дневной лимит стилиста. Нагрузка не уходит ниже нуля
func (r *Repository) ReleaseWorkload(ctx context.Context, stylistID string, date time.Time, units int) error {
	if units < 0 {
		return ErrInvalidUnits
	}
	if units == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("stylist_workload").
		Set("reserved_units", squirrel.Expr("GREATEST(reserved_units - ?, 0)", units)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"stylist_id": stylistID, "work_date": workDate(date)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseWorkload - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseWorkload - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

func workDate(date time.Time) string {
	return date.Format(domain.DateFormat)
}
