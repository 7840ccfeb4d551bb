package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s belongs to the closed set of statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a request from a user for one catalog service on a given date.
type Booking struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"not null;index"`
	ServiceID   uint          `json:"service_id" gorm:"not null;index"`
	Date        time.Time     `json:"date" gorm:"not null"`
	VehicleType string        `json:"vehicle_type,omitempty" gorm:"type:varchar(100)"`
	Message     string        `json:"message,omitempty" gorm:"type:text"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(50);not null;default:pending;index"`
	CreatedAt   time.Time     `json:"created_at" gorm:"index"`

	User    *User    `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Service *Service `json:"-" gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// ShortID is the display form of the booking id used in emails and exports.
func (b *Booking) ShortID() string {
	return fmt.Sprintf("#%06d", b.ID)
}
