package events

import (
	"time"

	"carcare/internal/models"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
)

// BookingPayload is the booking snapshot carried by booking events.
type BookingPayload struct {
	BookingID      uint      `json:"booking_id"`
	UserID         uint      `json:"user_id"`
	ServiceID      uint      `json:"service_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Date           time.Time `json:"date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// FromBooking snapshots b at the current time.
func FromBooking(b *models.Booking) BookingPayload {
	return BookingPayload{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ServiceID:  b.ServiceID,
		Status:     string(b.Status),
		Date:       b.Date,
		OccurredAt: time.Now().UTC(),
	}
}
