package appointments

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

const tracerName = "github.com/m04kA/SMC-SalonService/internal/service/appointments"

// Service сервис жизненного цикла записей.
// Каждое изменение выполняется как чтение FOR UPDATE, проверка и запись в одной сериализуемой транзакции
type Service struct {
	repo         AppointmentRepository
	workload     WorkloadService
	staff        StaffDirectory
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	tracer       trace.Tracer
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей. notifier может быть nil
func NewService(
	repo AppointmentRepository,
	workload WorkloadService,
	staff StaffDirectory,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		workload:     workload,
		staff:        staff,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: timeProvider,
		tracer:       otel.Tracer(tracerName),
		logger:       logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetByID", id, err)
	}

	return models.FromDomainAppointment(appointment, s.timeProvider.Now()), nil
}

// ListByBranch получает записи филиала с фильтрацией по статусу, стилисту и периоду
func (s *Service) ListByBranch(ctx context.Context, req *models.ListBranchRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("ListByBranch: fetching appointments for branch=%s", req.BranchID)
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.StylistID != nil {
		logMsg += fmt.Sprintf(", stylist=%s", *req.StylistID)
	}
	if req.DateFrom != nil && req.DateTo != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByBranch: invalid filter for branch=%s: %v", req.BranchID, err)
		return nil, err
	}

	appointments, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBranch: repository error for branch=%s: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: ListByBranch - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByBranch: fetched %d appointments for branch=%s", len(appointments), req.BranchID)
	return models.FromDomainAppointmentList(appointments, s.timeProvider.Now()), nil
}

// ListByClient получает историю записей клиента
func (s *Service) ListByClient(ctx context.Context, clientID string) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByClient: fetching appointments for client=%s", clientID)

	appointments, err := s.repo.Query(ctx, domain.AppointmentFilter{ClientID: &clientID})
	if err != nil {
		s.logger.Error("ListByClient: repository error for client=%s: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments, s.timeProvider.Now()), nil
}

// Transition меняет статус записи по таблице переходов.
// Отмена освобождает нагрузку стилистов, подтверждение отправляет уведомление после коммита
func (s *Service) Transition(ctx context.Context, id string, req *models.TransitionRequest) (resp *models.AppointmentResponse, err error) {
	ctx, span := s.startSpan(ctx, "Appointments.Transition", id, attribute.String("status.to", req.Status))
	defer func() { finishSpan(span, err) }()

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		s.logger.Warn("Transition: appointment id=%s: %v", id, err)
		return nil, &domain.ValidationError{Errors: []domain.FieldIssue{{Field: domain.FieldStatus, Message: err.Error()}}}
	}

	now := s.timeProvider.Now()
	var appointment *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		from := a.Status

		if err := a.Transition(status, req.PerformedBy, req.Notes, now); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, id, domain.AppointmentPatch{Status: &a.Status, UpdatedAt: now}); err != nil {
			return err
		}
		if err := s.appendLastHistory(txCtx, a); err != nil {
			return err
		}

		if status == domain.StatusCancelled && from.IsActive() {
			if err := s.workload.Release(txCtx, a.AppointmentDate, a.WorkloadByStylist()); err != nil {
				return err
			}
		}

		appointment = a
		return nil
	})
	if err != nil {
		return nil, s.mapError("Transition", id, err)
	}

	s.metrics.IncStatusTransition(status.String())
	s.logger.Info("Transition: appointment id=%s is now %s (by %s)", id, status, req.PerformedBy)

	if status == domain.StatusConfirmed {
		s.notifyConfirmed(ctx, appointment, req.PerformedBy)
	}

	return models.FromDomainAppointment(appointment, now), nil
}

// UpdateClientInfo частично обновляет контакты клиента. Статус записи не меняется
func (s *Service) UpdateClientInfo(ctx context.Context, id string, req *models.UpdateClientInfoRequest) (resp *models.AppointmentResponse, err error) {
	ctx, span := s.startSpan(ctx, "Appointments.UpdateClientInfo", id)
	defer func() { finishSpan(span, err) }()

	patch := domain.SanitizeClientInfoPatch(req.ClientInfo)
	if patch.IsEmpty() {
		s.logger.Warn("UpdateClientInfo: empty patch for appointment id=%s", id)
		return nil, &domain.ValidationError{Errors: []domain.FieldIssue{{Field: domain.FieldClientInfo, Message: "at least one field is required"}}}
	}

	now := s.timeProvider.Now()
	var appointment *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		a.UpdateClientInfo(patch, req.PerformedBy, now)
		if err := s.repo.Update(txCtx, id, domain.AppointmentPatch{ClientInfo: &a.ClientInfo, UpdatedAt: now}); err != nil {
			return err
		}
		if err := s.appendLastHistory(txCtx, a); err != nil {
			return err
		}

		appointment = a
		return nil
	})
	if err != nil {
		return nil, s.mapError("UpdateClientInfo", id, err)
	}

	s.logger.Info("UpdateClientInfo: appointment id=%s updated by %s", id, req.PerformedBy)
	return models.FromDomainAppointment(appointment, now), nil
}

// Reschedule переносит запись на другой день и время.
// Новая дата должна быть в будущем, все стилисты должны работать в новый день,
// резерв нагрузки переносится в той же транзакции
func (s *Service) Reschedule(ctx context.Context, id string, req *models.RescheduleRequest) (resp *models.AppointmentResponse, err error) {
	ctx, span := s.startSpan(ctx, "Appointments.Reschedule", id,
		attribute.String("date.to", req.AppointmentDate),
		attribute.String("time.to", req.AppointmentTime),
	)
	defer func() { finishSpan(span, err) }()

	now := s.timeProvider.Now()

	result := domain.ValidateSchedule(req.AppointmentDate, req.AppointmentTime, now)
	if !result.IsValid {
		s.logger.Warn("Reschedule: validation failed for appointment id=%s: %v", id, result.Errors)
		return nil, &domain.ValidationError{Errors: result.Errors}
	}
	date, _ := domain.ParseDate(req.AppointmentDate)
	at := types.TimeString(req.AppointmentTime)

	var appointment *domain.Appointment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !a.CanBeRescheduled() {
			return fmt.Errorf("%w: status %s", ErrCannotReschedule, a.Status)
		}

		if err := s.workload.Move(txCtx, a.AppointmentDate, date, a.WorkloadByStylist()); err != nil {
			return err
		}

		if err := a.Reschedule(date, at, req.PerformedBy, req.Notes, now); err != nil {
			return err
		}
		patch := domain.AppointmentPatch{
			AppointmentDate: &a.AppointmentDate,
			AppointmentTime: &a.AppointmentTime,
			UpdatedAt:       now,
		}
		if err := s.repo.Update(txCtx, id, patch); err != nil {
			return err
		}
		if err := s.appendLastHistory(txCtx, a); err != nil {
			return err
		}

		appointment = a
		return nil
	})
	if err != nil {
		return nil, s.mapError("Reschedule", id, err)
	}

	s.logger.Info("Reschedule: appointment id=%s moved to %s %s", id, req.AppointmentDate, req.AppointmentTime)
	return models.FromDomainAppointment(appointment, now), nil
}

func (s *Service) appendLastHistory(ctx context.Context, a *domain.Appointment) error {
	entry, ok := a.LastHistoryEntry()
	if !ok {
		return nil
	}
	return s.repo.AppendHistory(ctx, a.ID, entry)
}

// notifyConfirmed собирает контакты стилистов и вызывает notifier.
// Ошибки только логируются: переход уже закоммичен
func (s *Service) notifyConfirmed(ctx context.Context, a *domain.Appointment, by string) {
	if s.notifier == nil {
		return
	}

	stylists := make([]domain.StaffRecord, 0, len(a.StylistIDs()))
	for _, stylistID := range a.StylistIDs() {
		staff, err := s.staff.GetStaff(ctx, stylistID)
		if err != nil {
			s.logger.Warn("notifyConfirmed: contact of stylist=%s unavailable: %v", stylistID, err)
			continue
		}
		stylists = append(stylists, *staff)
	}

	notice := domain.NewConfirmationNotice(a, stylists, by, a.UpdatedAt)
	if err := s.notifier.AppointmentConfirmed(ctx, notice); err != nil {
		s.logger.Warn("notifyConfirmed: appointment id=%s: %v", a.ID, err)
		return
	}
	s.logger.Info("notifyConfirmed: appointment id=%s: client and %d stylists notified", a.ID, len(stylists))
}

// mapError приводит ошибки репозитория и домена к ошибкам сервиса
func (s *Service) mapError(op, id string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("%s: appointment id=%s not found", op, id)
		return fmt.Errorf("%w: %s", ErrAppointmentNotFound, id)
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrCannotReschedule),
		errors.Is(err, domain.ErrCapacityExceeded):
		s.logger.Warn("%s: appointment id=%s rejected: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: appointment id=%s failed: %v", op, id, err)
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
}

func (s *Service) startSpan(ctx context.Context, name, id string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("appointment.id", id))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
