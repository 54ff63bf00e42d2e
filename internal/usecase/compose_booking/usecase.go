package compose_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/composer"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
)

// UseCase собирает запись из выбора (стилист, услуга) по актуальной доступности
// и создает ее через create_appointment
type UseCase struct {
	availability AvailabilityResolver
	creator      AppointmentCreator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityResolver, creator AppointmentCreator, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		creator:      creator,
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ComposeBooking: branch=%s, date=%s, %d selections, by=%s",
		req.BranchID, req.AppointmentDate, len(req.Selections), req.CreatedBy)

	// 1. Проверка входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ComposeBooking: validation failed: %v", err)
		return nil, err
	}
	date, _ := domain.ParseDate(strings.TrimSpace(req.AppointmentDate))

	// 2. Доступность стилистов на дату
	availability, err := uc.availability.Execute(ctx, &resolve_availability.Request{
		BranchID: strings.TrimSpace(req.BranchID),
		Date:     date,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		uc.logger.Error("ComposeBooking: availability of branch=%s failed: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: resolve availability: %w", ErrInternal, err)
	}

	// 3. Выбор услуг в порядке запроса
	c := composer.New(availability.BranchID, availability.Date, availability.Stylists)
	var issues []domain.FieldIssue
	for i, sel := range req.Selections {
		name := strings.TrimSpace(sel.StylistName)
		serviceID := strings.TrimSpace(sel.ServiceID)
		if c.IsSelected(name, serviceID) {
			continue // повторный выбор не снимает услугу
		}
		if _, err := c.ToggleByID(name, serviceID); err != nil {
			issues = append(issues, selectionIssue(i, err))
		}
	}
	if len(issues) > 0 {
		uc.logger.Warn("ComposeBooking: %d selections rejected", len(issues))
		return nil, &domain.ValidationError{Errors: issues}
	}

	// 4. Предварительная проверка нагрузки, окончательная выполняется при резервировании
	if err := checkCapacity(availability.Stylists, c.WorkloadByStylist()); err != nil {
		uc.logger.Warn("ComposeBooking: %v", err)
		return nil, err
	}

	data, err := c.Compose(req.Client)
	if err != nil {
		uc.logger.Warn("ComposeBooking: %v", err)
		return nil, err
	}

	// 5. Создание записи
	created, err := uc.creator.Execute(ctx, &create_appointment.Request{Data: data, CreatedBy: req.CreatedBy})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ComposeBooking: appointment id=%s created, total=%s",
		created.Appointment.ID, created.Appointment.Total().StringFixed(2))

	return &Response{
		Appointment: created.Appointment,
		Total:       c.Total(),
		Warnings:    created.Warnings,
	}, nil
}

func selectionIssue(i int, err error) domain.FieldIssue {
	field := fmt.Sprintf("selections[%d].serviceId", i)
	if errors.Is(err, composer.ErrUnknownStylist) {
		field = fmt.Sprintf("selections[%d].stylistName", i)
	}
	return domain.FieldIssue{Field: field, Message: err.Error()}
}

// checkCapacity сравнивает выбранную нагрузку с остатком из снимка доступности
func checkCapacity(stylists []domain.StylistAvailability, units map[string]int) error {
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, s := range stylists {
			if s.StylistID == id && !s.CanTake(units[id]) {
				return fmt.Errorf("%w: %s needs %d units, %d left", ErrCapacityExceeded, s.Name, units[id], s.RemainingWorkload)
			}
		}
	}
	return nil
}
