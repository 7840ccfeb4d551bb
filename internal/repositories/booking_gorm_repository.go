package repositories

import (
	"context"
	"errors"
	"fmt"

	"carcare/internal/domain"
	"carcare/internal/models"

	"gorm.io/gorm"
)

// GORMBookingRepository is a GORM implementation of BookingRepository.
type GORMBookingRepository struct {
	db *gorm.DB
}

// NewGORMBookingRepository creates a new instance of GORMBookingRepository.
func NewGORMBookingRepository(db *gorm.DB) *GORMBookingRepository {
	return &GORMBookingRepository{
		db: db,
	}
}

// GetAll returns bookings in creation order, oldest first. Ties on created_at
// fall back to the serial id so the order stays stable.
func (r *GORMBookingRepository) GetAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *GORMBookingRepository) GetAllDetailed(ctx context.Context) ([]models.Booking, error) {
	return r.list(r.db.WithContext(ctx).Preload("User").Preload("Service"))
}

func (r *GORMBookingRepository) list(tx *gorm.DB) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if err := tx.Order("created_at ASC").Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all bookings: %w", err)
	}
	return bookings, nil
}

// GetByID retrieves a single booking by its ID.
func (r *GORMBookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetDetailed retrieves a booking with User and Service preloaded.
func (r *GORMBookingRepository) GetDetailed(ctx context.Context, id uint) (*models.Booking, error) {
	return r.get(r.db.WithContext(ctx).Preload("User").Preload("Service"), id)
}

func (r *GORMBookingRepository) get(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, fmt.Errorf("failed to get booking by ID %d: %w", id, err)
	}
	return &booking, nil
}

// Create inserts the booking in a single statement. Missing user or service rows
// surface as domain.InvalidReferenceError from the foreign keys.
func (r *GORMBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	// Omit associations so gorm never upserts a dangling User/Service.
	if err := r.db.WithContext(ctx).Omit("User", "Service").Create(booking).Error; err != nil {
		if err = translateWriteError(err, "booking"); domainErr(err) {
			return err
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// UpdateStatus sets the status of an existing booking.
func (r *GORMBookingRepository) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}
