package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Service строит отчеты по записям филиала
type Service struct {
	repo      AppointmentRepository
	catalog   CatalogService
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса отчетов
func NewService(repo AppointmentRepository, catalog CatalogService, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		txManager: txManager,
		logger:    logger,
	}
}

// Revenue считает выручку выполненных записей и ожидаемую выручку активных
func (s *Service) Revenue(ctx context.Context, branchID string, period Period) (*RevenueReport, error) {
	s.logger.Info("Revenue: branch=%s, period=%s", branchID, formatPeriod(period))

	catalog, appointments, err := s.load(ctx, "Revenue", branchID, period)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{
		BranchID:         branchID,
		DateFrom:         formatDate(period.From),
		DateTo:           formatDate(period.To),
		Currency:         domain.CurrencyCode,
		CompletedRevenue: decimal.Zero,
		ProjectedRevenue: decimal.Zero,
	}

	for _, a := range appointments {
		switch {
		case a.Status == domain.StatusCompleted:
			report.CompletedCount++
			report.CompletedRevenue = report.CompletedRevenue.Add(s.appointmentTotal(catalog, a))
		case a.Status.IsActive():
			report.ProjectedCount++
			report.ProjectedRevenue = report.ProjectedRevenue.Add(s.appointmentTotal(catalog, a))
		case a.Status == domain.StatusCancelled:
			report.CancelledCount++
		}
	}

	s.logger.Info("Revenue: branch=%s: %d completed (%s), %d projected (%s)", branchID,
		report.CompletedCount, report.CompletedRevenue.StringFixed(2),
		report.ProjectedCount, report.ProjectedRevenue.StringFixed(2))
	return report, nil
}

// Stylists считает показатели по каждому стилисту. Выручка пары относится к ее стилисту
func (s *Service) Stylists(ctx context.Context, branchID string, period Period) (*StylistReport, error) {
	s.logger.Info("Stylists: branch=%s, period=%s", branchID, formatPeriod(period))

	catalog, appointments, err := s.load(ctx, "Stylists", branchID, period)
	if err != nil {
		return nil, err
	}

	rollups := make(map[string]*StylistRollup)
	get := func(id string) *StylistRollup {
		r, ok := rollups[id]
		if !ok {
			r = &StylistRollup{StylistID: id, Revenue: decimal.Zero}
			rollups[id] = r
		}
		return r
	}

	for _, a := range appointments {
		switch {
		case a.Status == domain.StatusCompleted:
			for _, stylistID := range a.StylistIDs() {
				get(stylistID).Appointments++
			}
			for _, p := range a.ServiceStylistPairs {
				r := get(p.StylistID)
				r.ServicesPerformed++
				r.Revenue = r.Revenue.Add(s.pairPrice(catalog, a.ID, p))
			}
		case a.Status.IsActive():
			for _, p := range a.ServiceStylistPairs {
				get(p.StylistID).UpcomingServices++
			}
		}
	}

	report := &StylistReport{
		BranchID: branchID,
		DateFrom: formatDate(period.From),
		DateTo:   formatDate(period.To),
		Currency: domain.CurrencyCode,
		Stylists: make([]StylistRollup, 0, len(rollups)),
	}
	for _, r := range rollups {
		report.Stylists = append(report.Stylists, *r)
	}
	sort.Slice(report.Stylists, func(i, j int) bool {
		return report.Stylists[i].StylistID < report.Stylists[j].StylistID
	})

	return report, nil
}

func (s *Service) load(ctx context.Context, op, branchID string, period Period) (*domain.BranchCatalog, []*domain.Appointment, error) {
	if period.From != nil && period.To != nil && period.To.Before(*period.From) {
		return nil, nil, &domain.ValidationError{Errors: []domain.FieldIssue{{Field: "dateTo", Message: "dateTo is before dateFrom"}}}
	}

	var (
		catalog      *domain.BranchCatalog
		appointments []*domain.Appointment
	)

	// Каталог и записи читаются из одного снимка, чтобы цены legacy записей не разъехались
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		catalog, err = s.catalog.LoadBranchCatalog(txCtx, branchID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrBranchNotFound, branchID)
			}
			return fmt.Errorf("load catalog: %w", err)
		}

		appointments, err = s.repo.Query(txCtx, domain.AppointmentFilter{
			BranchID: &branchID,
			DateFrom: period.From,
			DateTo:   period.To,
		})
		if err != nil {
			return fmt.Errorf("query appointments: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBranchNotFound) {
			s.logger.Warn("%s: branch=%s not found", op, branchID)
			return nil, nil, err
		}
		s.logger.Error("%s: branch=%s: %v", op, branchID, err)
		return nil, nil, fmt.Errorf("%w: %s - %w", ErrInternal, op, err)
	}

	return catalog, appointments, nil
}

func (s *Service) appointmentTotal(catalog *domain.BranchCatalog, a *domain.Appointment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.ServiceStylistPairs {
		total = total.Add(s.pairPrice(catalog, a.ID, p))
	}
	return total
}

// pairPrice берет цену, зафиксированную при создании. Для legacy записей без цены
// используется текущая цена филиала
func (s *Service) pairPrice(catalog *domain.BranchCatalog, appointmentID string, p domain.ServiceStylistPair) decimal.Decimal {
	if p.Price.Valid {
		return p.Price.Decimal
	}
	price, ok := catalog.EffectivePrice(p.ServiceID)
	if !ok {
		s.logger.Warn("pairPrice: appointment id=%s: service=%s has no price in the branch catalog", appointmentID, p.ServiceID)
		return decimal.Zero
	}
	return price
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}

func formatPeriod(p Period) string {
	from, to := "-", "-"
	if p.From != nil {
		from = p.From.Format(domain.DateFormat)
	}
	if p.To != nil {
		to = p.To.Format(domain.DateFormat)
	}
	return from + ".." + to
}
