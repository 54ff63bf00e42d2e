package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// Repository репозиторий каталога услуг: филиалы, определения услуг,
// предложения филиалов и сертификаты стилистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBranch получает филиал по ID
func (r *Repository) GetBranch(ctx context.Context, branchID string) (*domain.Branch, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"address",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("branches").
		Where(squirrel.Eq{"id": branchID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBranch - build select query: %v", ErrBuildQuery, err)
	}

	var branch domain.Branch
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&branch.ID,
		&branch.Name,
		&branch.Address,
		&branch.IsActive,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBranch - scan branch: %w", ErrExecQuery, err)
	}

	branch.CreatedAt = createdAt.Time
	branch.UpdatedAt = updatedAt.Time

	return &branch, nil
}

// ListBranchServiceOfferings получает все предложения услуг филиала
func (r *Repository) ListBranchServiceOfferings(ctx context.Context, branchID string) ([]domain.BranchServiceOffering, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"branch_id",
		"service_id",
		"branch_discounted_price",
	).
		From("branch_service_offerings").
		Where(squirrel.Eq{"branch_id": branchID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBranchServiceOfferings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBranchServiceOfferings - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	offerings := make([]domain.BranchServiceOffering, 0)
	for rows.Next() {
		var o domain.BranchServiceOffering
		if err := rows.Scan(&o.BranchServiceID, &o.BranchID, &o.ServiceID, &o.BranchDiscountedPrice); err != nil {
			return nil, fmt.Errorf("%w: ListBranchServiceOfferings - scan offering: %v", ErrScanRow, err)
		}
		offerings = append(offerings, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBranchServiceOfferings - rows error: %w", ErrExecQuery, err)
	}

	return offerings, nil
}

// GetServiceDefinitions получает определения услуг по списку ID.
// Отсутствующие ID в результат не попадают
func (r *Repository) GetServiceDefinitions(ctx context.Context, serviceIDs []string) (map[string]domain.ServiceDefinition, error) {
	definitions := make(map[string]domain.ServiceDefinition, len(serviceIDs))
	if len(serviceIDs) == 0 {
		return definitions, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"description",
		"default_price",
		"workload_units",
		"duration_minutes",
	).
		From("service_definitions").
		Where(squirrel.Eq{"id": serviceIDs}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceDefinitions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceDefinitions - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.ServiceDefinition
		err := rows.Scan(
			&d.ServiceID,
			&d.Name,
			&d.Description,
			&d.DefaultPrice,
			&d.WorkloadUnits,
			&d.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetServiceDefinitions - scan definition: %v", ErrScanRow, err)
		}
		definitions[d.ServiceID] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServiceDefinitions - rows error: %w", ErrExecQuery, err)
	}

	return definitions, nil
}

// ListStylistCertifications получает сертификаты стилиста в порядке их выдачи
func (r *Repository) ListStylistCertifications(ctx context.Context, stylistID string) ([]domain.StylistServiceCertification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"stylist_id",
		"branch_service_id",
	).
		From("stylist_certifications").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		OrderBy("created_at ASC", "branch_service_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistCertifications - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistCertifications - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	certs := make([]domain.StylistServiceCertification, 0)
	for rows.Next() {
		var c domain.StylistServiceCertification
		if err := rows.Scan(&c.StylistID, &c.BranchServiceID); err != nil {
			return nil, fmt.Errorf("%w: ListStylistCertifications - scan certification: %v", ErrScanRow, err)
		}
		certs = append(certs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStylistCertifications - rows error: %w", ErrExecQuery, err)
	}

	return certs, nil
}
