package handlers

import (
	"carcare/internal/models"
	"carcare/internal/services"
	"carcare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ServiceHandler handles HTTP requests for the service catalog.
type ServiceHandler struct {
	service  *services.CatalogService
	validate *validation.Validator
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(service *services.CatalogService, validate *validation.Validator) *ServiceHandler {
	return &ServiceHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the catalog routes. Reads are public, creation
// goes through auth.
func (h *ServiceHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	serviceRoutes := router.Group("/services")
	serviceRoutes.Get("/", h.HandleGetServices)
	serviceRoutes.Get("/:id", h.HandleGetServiceByID)
	serviceRoutes.Post("/", auth, h.HandleCreateService)
}

// HandleGetServices lists the catalog.
func (h *ServiceHandler) HandleGetServices(c *fiber.Ctx) error {
	list, err := h.service.GetAllServices(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"services": list,
	})
}

// HandleGetServiceByID retrieves a single service.
func (h *ServiceHandler) HandleGetServiceByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	service, err := h.service.GetServiceByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"service": service,
	})
}

// HandleCreateService adds a catalog entry.
func (h *ServiceHandler) HandleCreateService(c *fiber.Ctx) error {
	var req models.CreateServiceRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	service, err := h.service.CreateService(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Service created successfully",
		"service": service,
	})
}
