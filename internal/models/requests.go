package models

import "strings"

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

// LoginRequest carries the same identity fields as registration; password
// strength is not re-checked.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

// CreateServiceRequest is the payload of POST /api/services.
type CreateServiceRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Price       string `json:"price" validate:"omitempty,max=50"`
}

func (r *CreateServiceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Price = strings.TrimSpace(r.Price)
}

// CreateBookingRequest is the payload of POST /api/bookings. There is no status
// field: new bookings are always pending.
type CreateBookingRequest struct {
	UserID      uint   `json:"user_id" validate:"omitempty,gt=0"`
	ServiceID   uint   `json:"service_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required,anydate"`
	VehicleType string `json:"vehicle_type" validate:"omitempty,max=100"`
	Message     string `json:"message" validate:"omitempty,max=2000"`
}

func (r *CreateBookingRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.VehicleType = strings.TrimSpace(r.VehicleType)
	r.Message = strings.TrimSpace(r.Message)
}

// UpdateBookingStatusRequest is the payload of PATCH /api/bookings/:id/status.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

func (r *UpdateBookingStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
