package repositories

import (
	"context"
	"errors"
	"fmt"

	"carcare/internal/domain"
	"carcare/internal/models"

	"gorm.io/gorm"
)

// GORMServiceRepository is a GORM implementation of ServiceRepository.
type GORMServiceRepository struct {
	db *gorm.DB
}

// NewGORMServiceRepository creates a new instance of GORMServiceRepository.
func NewGORMServiceRepository(db *gorm.DB) *GORMServiceRepository {
	return &GORMServiceRepository{
		db: db,
	}
}

// GetAll retrieves every catalog entry, oldest first.
func (r *GORMServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to get all services: %w", err)
	}
	return services, nil
}

// GetByID retrieves a single service by its ID.
func (r *GORMServiceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError{Resource: "service", Err: err}
		}
		return nil, fmt.Errorf("failed to get service by ID %d: %w", id, err)
	}
	return &service, nil
}

// Create inserts a new service.
func (r *GORMServiceRepository) Create(ctx context.Context, service *models.Service) error {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}
