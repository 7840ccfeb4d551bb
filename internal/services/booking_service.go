package services

import (
	"context"
	"fmt"
	"io"

	"carcare/internal/domain"
	"carcare/internal/events"
	"carcare/internal/export"
	"carcare/internal/metrics"
	"carcare/internal/models"
	"carcare/internal/notify"
	"carcare/internal/repositories"
	"carcare/internal/validation"

	"github.com/rs/zerolog"
)

// Notifier accepts confirmation emails for background delivery.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}

// EventPublisher defines the interface for publishing booking events.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// BookingService handles business logic related to bookings.
type BookingService struct {
	repo      repositories.BookingRepository
	notifier  Notifier
	renderer  *notify.Renderer
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil when no
// broker is configured.
func NewBookingService(repo repositories.BookingRepository, notifier Notifier, renderer *notify.Renderer, publisher EventPublisher, logger zerolog.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		notifier:  notifier,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger.With().Str("component", "booking_service").Logger(),
	}
}

// GetAllBookings lists bookings oldest first.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	return s.repo.GetAll(ctx)
}

// GetBookingByID retrieves a single booking by its ID.
func (s *BookingService) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateBooking stores a pending booking owned by actorID for the referenced
// service. Once
// the insert returns, exactly one confirmation email is queued; its fate never
// changes the result.
func (s *BookingService) CreateBooking(ctx context.Context, actorID uint, req models.CreateBookingRequest) (*models.Booking, error) {
	date, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, domain.NewValidationError("date", "must be a valid date")
	}

	// A caller books only for themselves; user_id is accepted when it names the caller.
	if req.UserID != 0 && req.UserID != actorID {
		return nil, domain.NewValidationError("user_id", "must match the authenticated user")
	}
	userID := actorID

	booking := &models.Booking{
		UserID:      userID,
		ServiceID:   req.ServiceID,
		Date:        date,
		VehicleType: req.VehicleType,
		Message:     req.Message,
		Status:      models.BookingStatusPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		if domain.IsInvalidReference(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.IncBookingCreated()
	s.logger.Info().
		Uint("booking_id", booking.ID).
		Uint("user_id", booking.UserID).
		Uint("service_id", booking.ServiceID).
		Msg("booking created")

	s.notifyCreated(ctx, booking)
	s.publish(events.BookingCreated, events.FromBooking(booking))

	return booking, nil
}

// UpdateBookingStatus moves a booking to status. Setting the current status
// again is accepted and publishes nothing.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of: pending confirmed completed cancelled")
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == status {
		return booking, nil
	}

	previous := booking.Status
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.logger.Info().
		Uint("booking_id", id).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("booking status updated")

	payload := events.FromBooking(booking)
	payload.PreviousStatus = string(previous)
	s.publish(events.BookingStatusChanged, payload)

	return booking, nil
}

// ExportBookings writes every booking, with customer and service, as an xlsx workbook.
func (s *BookingService) ExportBookings(ctx context.Context, w io.Writer) error {
	bookings, err := s.repo.GetAllDetailed(ctx)
	if err != nil {
		return err
	}
	return export.WriteBookings(w, bookings)
}

func (s *BookingService) notifyCreated(ctx context.Context, booking *models.Booking) {
	if s.notifier == nil || s.renderer == nil {
		return
	}

	detailed, err := s.repo.GetDetailed(ctx, booking.ID)
	if err != nil {
		s.logger.Error().Err(err).Uint("booking_id", booking.ID).Msg("failed to load booking for confirmation email")
		return
	}
	msg, err := s.renderer.BookingConfirmation(detailed)
	if err != nil {
		s.logger.Error().Err(err).Uint("booking_id", booking.ID).Msg("failed to render confirmation email")
		return
	}
	if msg.To == "" {
		s.logger.Warn().Uint("booking_id", booking.ID).Msg("booking owner has no email, confirmation skipped")
		return
	}
	s.notifier.Enqueue(msg)
}

func (s *BookingService) publish(routingKey string, payload events.BookingPayload) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Error().Err(err).Str("event", routingKey).Uint("booking_id", payload.BookingID).Msg("failed to publish booking event")
	}
}
