package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// UseCase use case создания записи в салон
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalog         CatalogService
	staff           StaffDirectory
	workload        WorkloadService
	txManager       TransactionManager
	metrics         Metrics
	timeProvider    TimeProvider
	newID           func() string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalog CatalogService,
	staff StaffDirectory,
	workload WorkloadService,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		staff:           staff,
		workload:        workload,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    timeProvider,
		newID:           uuid.NewString,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Резервирование нагрузки и вставка записи выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Очистка и валидация входных данных
	now := uc.timeProvider.Now()
	data, result := domain.Prepare(req.Data, now)

	uc.logger.Info("CreateAppointment: branch=%s, date=%s %s, by=%s",
		data.BranchID, data.AppointmentDate, data.AppointmentTime, req.CreatedBy)

	if !result.IsValid {
		uc.logger.Warn("CreateAppointment: validation failed: %v", result.Errors)
		return nil, &domain.ValidationError{Errors: result.Errors}
	}

	appointment, err := domain.NewAppointment(uc.newID(), data, req.CreatedBy, now)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 2. Каталог филиала
	catalog, err := uc.catalog.LoadBranchCatalog(ctx, appointment.BranchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("CreateAppointment: branch=%s not found", appointment.BranchID)
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, appointment.BranchID)
		}
		uc.logger.Error("CreateAppointment: failed to load catalog of branch=%s: %v", appointment.BranchID, err)
		return nil, fmt.Errorf("%w: load catalog: %w", ErrInternal, err)
	}

	// 3. Стилисты, их услуги и фиксация цены и нагрузки в парах
	if err := uc.enrichPairs(ctx, catalog, appointment); err != nil {
		return nil, err
	}

	// 4. Резерв нагрузки и сохранение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.workload.Reserve(txCtx, appointment.AppointmentDate, appointment.WorkloadByStylist()); err != nil {
			return err
		}
		return uc.appointmentRepo.Create(txCtx, appointment)
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrCapacityExceeded) {
			uc.logger.Warn("CreateAppointment: rejected: %v", err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: failed to save appointment: %v", err)
		return nil, fmt.Errorf("%w: save appointment: %w", ErrInternal, err)
	}

	uc.metrics.IncAppointmentCreated(appointment.BranchID)
	uc.logger.Info("CreateAppointment: created id=%s with %d services, total=%s",
		appointment.ID, len(appointment.ServiceStylistPairs), appointment.Total().StringFixed(2))

	return &Response{
		Appointment: appointment,
		Warnings:    result.Warnings,
	}, nil
}

// enrichPairs проверяет каждую пару и записывает в неё цену филиала и единицы нагрузки
func (uc *UseCase) enrichPairs(ctx context.Context, catalog *domain.BranchCatalog, appointment *domain.Appointment) error {
	offered := make(map[string]map[string]domain.ResolvedService)
	var issues []domain.FieldIssue

	for _, stylistID := range appointment.StylistIDs() {
		staff, err := uc.staff.GetStaff(ctx, stylistID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("CreateAppointment: stylist=%s not found", stylistID)
				return fmt.Errorf("%w: %s", ErrStylistNotFound, stylistID)
			}
			uc.logger.Error("CreateAppointment: failed to get stylist=%s: %v", stylistID, err)
			return fmt.Errorf("%w: get stylist: %w", ErrInternal, err)
		}
		if msg := checkStylist(staff, appointment.BranchID); msg != "" {
			issues = append(issues, domain.FieldIssue{Field: domain.FieldPairs, Message: msg})
			continue
		}

		services, err := uc.catalog.ResolveForStylist(ctx, catalog, stylistID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to resolve services of stylist=%s: %v", stylistID, err)
			return fmt.Errorf("%w: resolve services: %w", ErrInternal, err)
		}
		byID := make(map[string]domain.ResolvedService, len(services))
		for _, s := range services {
			byID[s.ServiceID] = s
		}
		offered[stylistID] = byID
	}

	for i := range appointment.ServiceStylistPairs {
		pair := &appointment.ServiceStylistPairs[i]
		if !catalog.Offers(pair.ServiceID) {
			uc.logger.Warn("CreateAppointment: service=%s is not offered at branch=%s", pair.ServiceID, appointment.BranchID)
			return fmt.Errorf("%w: %s at branch %s", ErrServiceNotFound, pair.ServiceID, appointment.BranchID)
		}
		services, ok := offered[pair.StylistID]
		if !ok {
			continue // стилист уже отклонен выше
		}
		svc, ok := services[pair.ServiceID]
		if !ok {
			issues = append(issues, domain.FieldIssue{
				Field:   pairField(i, "stylistId"),
				Message: fmt.Sprintf("stylist %s is not certified for %s", pair.StylistID, pair.ServiceID),
			})
			continue
		}
		pair.Price = decimal.NewNullDecimal(svc.Price)
		pair.WorkloadUnits = svc.WorkloadUnits
	}

	if len(issues) > 0 {
		uc.logger.Warn("CreateAppointment: %d pair issues", len(issues))
		return &domain.ValidationError{Errors: issues}
	}
	return nil
}
