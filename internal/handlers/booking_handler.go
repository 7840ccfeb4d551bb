package handlers

import (
	"bytes"
	"fmt"
	"time"

	"carcare/internal/export"
	"carcare/internal/middleware"
	"carcare/internal/models"
	"carcare/internal/services"
	"carcare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	service  *services.BookingService
	validate *validation.Validator
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *services.BookingService, validate *validation.Validator) *BookingHandler {
	return &BookingHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the booking routes; every one of them requires auth.
func (h *BookingHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	bookingRoutes := router.Group("/bookings", auth)
	bookingRoutes.Get("/", h.HandleGetBookings)
	// Before /:id so "export" is not parsed as an id.
	bookingRoutes.Get("/export", h.HandleExportBookings)
	bookingRoutes.Get("/:id", h.HandleGetBookingByID)
	bookingRoutes.Post("/", h.HandleCreateBooking)
	bookingRoutes.Patch("/:id/status", h.HandleUpdateBookingStatus)
}

// HandleGetBookings lists bookings, oldest first.
func (h *BookingHandler) HandleGetBookings(c *fiber.Ctx) error {
	bookings, err := h.service.GetAllBookings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"bookings": bookings,
	})
}

// HandleGetBookingByID retrieves a single booking by its ID.
func (h *BookingHandler) HandleGetBookingByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	booking, err := h.service.GetBookingByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"booking": booking,
	})
}

// HandleCreateBooking creates a pending booking. Any status in the body is ignored.
func (h *BookingHandler) HandleCreateBooking(c *fiber.Ctx) error {
	var req models.CreateBookingRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	booking, err := h.service.CreateBooking(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// HandleUpdateBookingStatus updates the status of an existing booking.
func (h *BookingHandler) HandleUpdateBookingStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.UpdateBookingStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	booking, err := h.service.UpdateBookingStatus(c.UserContext(), id, models.BookingStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Booking status updated",
		"booking": booking,
	})
}

// HandleExportBookings sends every booking as an xlsx attachment.
func (h *BookingHandler) HandleExportBookings(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportBookings(c.UserContext(), &buf); err != nil {
		return err
	}

	c.Attachment(fmt.Sprintf("bookings_%s.xlsx", time.Now().UTC().Format("2006-01-02")))
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(buf.Bytes())
}
