package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями в салон и их историей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись вместе с её историей.
// Выполняет два запроса, поэтому вызывать следует внутри транзакции
// (через txmanager, транзакция берется из контекста)
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	clientInfo, err := json.Marshal(a.ClientInfo)
	if err != nil {
		return fmt.Errorf("%w: Create - client_info: %v", ErrEncode, err)
	}
	pairs, err := json.Marshal(a.ServiceStylistPairs)
	if err != nil {
		return fmt.Errorf("%w: Create - service_stylist_pairs: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"branch_id",
			"appointment_date",
			"appointment_time",
			"client_id",
			"is_new_client",
			"new_client_name",
			"client_name",
			"client_info",
			"service_stylist_pairs",
			"status",
			"notes",
			"created_by",
			"created_at",
			"updated_at",
		).
		Values(
			a.ID,
			a.BranchID,
			a.AppointmentDate.Format(domain.DateFormat),
			a.AppointmentTime,
			nullString(a.ClientID),
			a.IsNewClient,
			a.NewClientName,
			a.ClientName,
			string(clientInfo),
			string(pairs),
			a.Status,
			a.Notes,
			a.CreatedBy,
			a.CreatedAt,
			a.UpdatedAt,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return r.insertHistory(ctx, executor, a.ID, a.History)
}

// AppendHistory добавляет записи в историю. Существующие записи не изменяются
func (r *Repository) AppendHistory(ctx context.Context, appointmentID string, entries ...domain.HistoryEntry) error {
	return r.insertHistory(ctx, dbmetrics.GetExecutor(ctx, r.db), appointmentID, entries)
}

func (r *Repository) insertHistory(ctx context.Context, executor DBExecutor, appointmentID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	builder := psqlbuilder.Insert("appointment_history").
		Columns("appointment_id", "action", "performed_by", "notes", "created_at")
	for _, e := range entries {
		builder = builder.Values(appointmentID, e.Action, e.By, e.Notes, e.Timestamp)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertHistory - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertHistory - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID вместе с историей.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrExecQuery, err)
	}

	a, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - decode: %v", ErrScanRow, err)
	}

	history, err := r.loadHistory(ctx, executor, []string{a.ID})
	if err != nil {
		return nil, err
	}
	a.History = append(a.History, history[a.ID]...)

	return a, nil
}

// Update применяет частичное обновление изменяемых колонок записи
func (r *Repository) Update(ctx context.Context, id string, patch domain.AppointmentPatch) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments")
	changed := false

	if patch.Status != nil {
		updateBuilder = updateBuilder.Set("status", *patch.Status)
		changed = true
	}
	if patch.ClientInfo != nil {
		clientInfo, err := json.Marshal(patch.ClientInfo)
		if err != nil {
			return fmt.Errorf("%w: Update - client_info: %v", ErrEncode, err)
		}
		updateBuilder = updateBuilder.Set("client_info", string(clientInfo))
		changed = true
	}
	if patch.AppointmentDate != nil {
		updateBuilder = updateBuilder.Set("appointment_date", patch.AppointmentDate.Format(domain.DateFormat))
		changed = true
	}
	if patch.AppointmentTime != nil {
		updateBuilder = updateBuilder.Set("appointment_time", *patch.AppointmentTime)
		changed = true
	}

	if !changed {
		return ErrEmptyPatch
	}

	query, args, err := updateBuilder.
		Set("updated_at", patch.UpdatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Query возвращает записи, удовлетворяющие фильтру, отсортированные по дате и времени.
// Фильтр по стилисту учитывает как пары услуга-стилист, так и старый формат записи
func (r *Repository) Query(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if filter.BranchID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"branch_id": *filter.BranchID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.StylistID != nil {
		containment, err := json.Marshal([]map[string]string{{"stylistId": *filter.StylistID}})
		if err != nil {
			return nil, fmt.Errorf("%w: Query - stylist filter: %v", ErrEncode, err)
		}
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Expr("service_stylist_pairs @> ?::jsonb", string(containment)),
			squirrel.Eq{"stylist_id": *filter.StylistID},
		})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": filter.DateTo.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date ASC", "appointment_time ASC", "created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		row, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: Query - scan appointment: %v", ErrScanRow, err)
		}
		a, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: Query - decode: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Query - rows error: %w", ErrExecQuery, err)
	}

	if len(appointments) == 0 {
		return appointments, nil
	}

	ids := make([]string, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
	}

	history, err := r.loadHistory(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range appointments {
		a.History = append(a.History, history[a.ID]...)
	}

	return appointments, nil
}

// loadHistory получает историю для набора записей одним запросом
func (r *Repository) loadHistory(ctx context.Context, executor DBExecutor, ids []string) (map[string][]domain.HistoryEntry, error) {
	query, args, err := psqlbuilder.Select(
		"appointment_id",
		"action",
		"performed_by",
		"notes",
		"created_at",
	).
		From("appointment_history").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadHistory - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make(map[string][]domain.HistoryEntry, len(ids))
	for rows.Next() {
		var appointmentID string
		var e domain.HistoryEntry
		if err := rows.Scan(&appointmentID, &e.Action, &e.By, &e.Notes, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: loadHistory - scan entry: %v", ErrScanRow, err)
		}
		history[appointmentID] = append(history[appointmentID], e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadHistory - rows error: %w", ErrExecQuery, err)
	}

	return history, nil
}
