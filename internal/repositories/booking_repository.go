package repositories

import (
	"context"

	"carcare/internal/models"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	GetAll(ctx context.Context) ([]models.Booking, error)
	// GetAllDetailed is GetAll with users and services preloaded.
	GetAllDetailed(ctx context.Context) ([]models.Booking, error)
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	// GetDetailed loads the booking together with its user and service.
	GetDetailed(ctx context.Context, id uint) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error
}
