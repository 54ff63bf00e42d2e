package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Service собирает каталог филиала: предложения филиала, глобальные определения услуг
// и сертификаты стилистов
type Service struct {
	repo        CatalogRepository
	definitions DefinitionSource
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo CatalogRepository, definitions DefinitionSource, logger Logger) *Service {
	return &Service{
		repo:        repo,
		definitions: definitions,
		logger:      logger,
	}
}

// LoadBranchCatalog загружает каталог активного филиала
func (s *Service) LoadBranchCatalog(ctx context.Context, branchID string) (*domain.BranchCatalog, error) {
	branch, err := s.repo.GetBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("LoadBranchCatalog: branch=%s not found", branchID)
			return nil, fmt.Errorf("%w: %s", ErrBranchNotFound, branchID)
		}
		s.logger.Error("LoadBranchCatalog: failed to get branch=%s: %v", branchID, err)
		return nil, fmt.Errorf("catalog: get branch %s: %w", branchID, err)
	}
	if !branch.IsActive {
		s.logger.Warn("LoadBranchCatalog: branch=%s is inactive", branchID)
		return nil, fmt.Errorf("%w: %s is inactive", ErrBranchNotFound, branchID)
	}

	offerings, err := s.repo.ListBranchServiceOfferings(ctx, branchID)
	if err != nil {
		s.logger.Error("LoadBranchCatalog: failed to list offerings of branch=%s: %v", branchID, err)
		return nil, fmt.Errorf("catalog: list offerings of %s: %w", branchID, err)
	}

	serviceIDs := make([]string, 0, len(offerings))
	for _, o := range offerings {
		serviceIDs = append(serviceIDs, o.ServiceID)
	}

	definitions, err := s.definitions.GetServiceDefinitions(ctx, serviceIDs)
	if err != nil {
		s.logger.Error("LoadBranchCatalog: failed to get definitions for branch=%s: %v", branchID, err)
		return nil, fmt.Errorf("catalog: get definitions for %s: %w", branchID, err)
	}

	catalog := domain.NewBranchCatalog(branchID, offerings, definitions)
	if dropped := len(offerings) - catalog.Len(); dropped > 0 {
		s.logger.Warn("LoadBranchCatalog: branch=%s has %d offerings without a service definition", branchID, dropped)
	}

	return catalog, nil
}

// ResolveForStylist возвращает услуги, которые стилист может оказать в филиале, по ценам филиала
func (s *Service) ResolveForStylist(ctx context.Context, catalog *domain.BranchCatalog, stylistID string) ([]domain.ResolvedService, error) {
	certs, err := s.repo.ListStylistCertifications(ctx, stylistID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list certifications of %s: %w", stylistID, err)
	}
	return catalog.ResolveForStylist(certs), nil
}
