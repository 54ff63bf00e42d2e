package workload

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Service резервирует и освобождает дневную нагрузку стилистов.
// Методы рассчитаны на вызов внутри сериализуемой транзакции
type Service struct {
	repo    ScheduleRepository
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса нагрузки
func NewService(repo ScheduleRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// Reserve проверяет, что каждый стилист работает в день date, и резервирует его единицы нагрузки.
// Стилисты обрабатываются в порядке ID, чтобы конкурентные транзакции блокировали строки одинаково
func (s *Service) Reserve(ctx context.Context, date time.Time, units map[string]int) error {
	weekday := domain.WeekdayOf(date)

	var notScheduled []domain.FieldIssue
	schedules := make(map[string]*domain.StylistSchedule, len(units))
	for _, stylistID := range sortedIDs(units) {
		schedule, err := s.repo.GetStylistSchedule(ctx, stylistID, weekday)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				notScheduled = append(notScheduled, domain.FieldIssue{
					Field:   domain.FieldAppointmentDate,
					Message: fmt.Sprintf("stylist %s does not work on %s", stylistID, weekday),
				})
				continue
			}
			return fmt.Errorf("workload: schedule of %s: %w", stylistID, err)
		}
		schedules[stylistID] = schedule
	}

	if len(notScheduled) > 0 {
		s.logger.Warn("Reserve: %d stylists are not scheduled on %s", len(notScheduled), date.Format(domain.DateFormat))
		return &domain.ValidationError{Errors: notScheduled}
	}

	for _, stylistID := range sortedIDs(units) {
		n := units[stylistID]
		if n == 0 {
			continue
		}
		reserved, err := s.repo.ReserveWorkload(ctx, stylistID, date, n, schedules[stylistID].WorkloadMaximum)
		if err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				s.metrics.IncCapacityRejected()
				s.logger.Warn("Reserve: stylist=%s has no capacity for %d units on %s (max %d)",
					stylistID, n, date.Format(domain.DateFormat), schedules[stylistID].WorkloadMaximum)
				return fmt.Errorf("%w: stylist %s on %s", ErrCapacityExceeded, stylistID, date.Format(domain.DateFormat))
			}
			return fmt.Errorf("workload: reserve for %s: %w", stylistID, err)
		}
		s.logger.Info("Reserve: stylist=%s, date=%s: %d/%d units reserved",
			stylistID, date.Format(domain.DateFormat), reserved, schedules[stylistID].WorkloadMaximum)
	}

	return nil
}

// Release возвращает единицы нагрузки в дневной лимит стилистов
func (s *Service) Release(ctx context.Context, date time.Time, units map[string]int) error {
	for _, stylistID := range sortedIDs(units) {
		if err := s.repo.ReleaseWorkload(ctx, stylistID, date, units[stylistID]); err != nil {
			return fmt.Errorf("workload: release for %s: %w", stylistID, err)
		}
	}
	return nil
}

// Move переносит резерв с одного дня на другой. Сначала освобождается старый день,
// поэтому перенос внутри того же дня не требует двойного лимита
func (s *Service) Move(ctx context.Context, from, to time.Time, units map[string]int) error {
	if err := s.Release(ctx, from, units); err != nil {
		return err
	}
	return s.Reserve(ctx, to, units)
}

func sortedIDs(units map[string]int) []string {
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
