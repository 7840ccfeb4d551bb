package services

import (
	"context"

	"carcare/internal/models"
	"carcare/internal/repositories"
)

// CatalogService handles business logic related to offered services.
type CatalogService struct {
	repo repositories.ServiceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ServiceRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// GetAllServices retrieves the whole catalog.
func (s *CatalogService) GetAllServices(ctx context.Context) ([]models.Service, error) {
	return s.repo.GetAll(ctx)
}

// GetServiceByID retrieves a single service by its ID.
func (s *CatalogService) GetServiceByID(ctx context.Context, id uint) (*models.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateService adds a validated entry to the catalog.
func (s *CatalogService) CreateService(ctx context.Context, req models.CreateServiceRequest) (*models.Service, error) {
	service := &models.Service{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}
