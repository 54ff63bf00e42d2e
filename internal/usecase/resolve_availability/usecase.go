package resolve_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	tracerName         = "github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
	defaultConcurrency = 8
)

// UseCase вычисляет, какие стилисты филиала работают в указанный день,
// сколько нагрузки у них осталось и какие услуги они могут оказать
type UseCase struct {
	staff       StaffDirectory
	catalog     CatalogService
	schedules   ScheduleRepository
	metrics     Metrics
	tracer      trace.Tracer
	concurrency int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case.
// concurrency ограничивает число параллельных запросов по стилистам
func NewUseCase(
	staff StaffDirectory,
	catalog CatalogService,
	schedules ScheduleRepository,
	metrics Metrics,
	concurrency int,
	logger Logger,
) *UseCase {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &UseCase{
		staff:       staff,
		catalog:     catalog,
		schedules:   schedules,
		metrics:     metrics,
		tracer:      otel.Tracer(tracerName),
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute выполняет расчет доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ResolveAvailability: validation failed: %v", err)
		return nil, err
	}

	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	weekday := domain.WeekdayOf(date)

	ctx, span := uc.tracer.Start(ctx, "ResolveAvailability", trace.WithAttributes(
		attribute.String("branch.id", req.BranchID),
		attribute.String("date", date.Format(domain.DateFormat)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	started := time.Now()
	uc.logger.Info("ResolveAvailability: branch=%s, date=%s (%s)", req.BranchID, date.Format(domain.DateFormat), weekday)

	// 1. Каталог филиала (заодно проверяет существование филиала)
	catalog, err := uc.catalog.LoadBranchCatalog(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("ResolveAvailability: branch=%s not found", req.BranchID)
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, req.BranchID)
		}
		uc.logger.Error("ResolveAvailability: failed to load catalog of branch=%s: %v", req.BranchID, err)
		return nil, fmt.Errorf("%w: load catalog: %w", ErrInternal, err)
	}

	// 2. Сотрудники филиала
	staff, err := uc.staff.ListStaffByBranch(ctx, req.BranchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Info("ResolveAvailability: staff directory has no branch=%s", req.BranchID)
			staff = nil
		} else {
			uc.logger.Error("ResolveAvailability: failed to list staff of branch=%s: %v", req.BranchID, err)
			return nil, fmt.Errorf("%w: list staff: %w", ErrInternal, err)
		}
	}

	// 3. Расписание, нагрузка и услуги по каждому стилисту параллельно.
	// Результат пишется по индексу, чтобы сохранить порядок справочника
	slots := make([]*domain.StylistAvailability, len(staff))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, member := range staff {
		i, member := i, member
		g.Go(func() error {
			availability, err := uc.resolveStylist(gctx, catalog, member, weekday, date)
			if err != nil {
				return err
			}
			slots[i] = availability
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("ResolveAvailability: branch=%s, date=%s failed: %v", req.BranchID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	stylists := make([]domain.StylistAvailability, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			stylists = append(stylists, *s)
		}
	}

	uc.metrics.ObserveAvailability(len(stylists), time.Since(started))
	span.SetAttributes(attribute.Int("stylists.available", len(stylists)))
	uc.logger.Info("ResolveAvailability: branch=%s, date=%s: %d of %d stylists scheduled",
		req.BranchID, date.Format(domain.DateFormat), len(stylists), len(staff))

	return &Response{
		BranchID: req.BranchID,
		Date:     date,
		Weekday:  weekday,
		Stylists: stylists,
	}, nil
}

// resolveStylist возвращает nil, если стилист не работает в этот день недели
func (uc *UseCase) resolveStylist(
	ctx context.Context,
	catalog *domain.BranchCatalog,
	member domain.StaffRecord,
	weekday domain.Weekday,
	date time.Time,
) (*domain.StylistAvailability, error) {
	schedule, err := uc.schedules.GetStylistSchedule(ctx, member.ID, weekday)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("schedule of %s: %w", member.ID, err)
	}

	reserved, err := uc.schedules.GetReservedWorkload(ctx, member.ID, date)
	if err != nil {
		return nil, fmt.Errorf("workload of %s: %w", member.ID, err)
	}

	services, err := uc.catalog.ResolveForStylist(ctx, catalog, member.ID)
	if err != nil {
		return nil, fmt.Errorf("services of %s: %w", member.ID, err)
	}

	return &domain.StylistAvailability{
		StylistID:         member.ID,
		Name:              member.Name,
		Position:          member.Position,
		RemainingWorkload: domain.RemainingWorkload(schedule.WorkloadMaximum, reserved),
		Services:          services,
	}, nil
}
