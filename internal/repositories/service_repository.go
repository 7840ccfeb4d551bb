package repositories

import (
	"context"

	"carcare/internal/models"
)

// ServiceRepository defines the interface for catalog data access.
type ServiceRepository interface {
	GetAll(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
}
