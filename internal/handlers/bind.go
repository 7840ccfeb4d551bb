package handlers

import (
	"carcare/internal/domain"
	"carcare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type normalizer interface {
	Normalize()
}

// bind decodes the JSON body into req, normalizes it and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, req normalizer) error {
	if err := c.BodyParser(req); err != nil {
		return invalidBody
	}
	req.Normalize()
	return v.Validate(req)
}

// paramID parses a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}
