package handlers

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"carcare/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorHandler is the single place unexpected errors end up. It logs the cause
// and answers with a generic 500 so internals never reach the client.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		rid, _ := c.Locals("requestid").(string)
		logger.Error().Err(err).
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
}

// respondError writes the response for expected failures and hands anything
// else back to Fiber, which routes it to ErrorHandler.
func respondError(c *fiber.Ctx, err error) error {
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  ve.Fields,
		})
	case domain.IsConflict(err):
		return fail(c, fiber.StatusBadRequest, capitalize(err.Error()))
	case domain.IsInvalidReference(err):
		return fail(c, fiber.StatusBadRequest, "Referenced user or service does not exist")
	case domain.IsUnauthorized(err):
		return fail(c, fiber.StatusUnauthorized, capitalize(err.Error()))
	case domain.IsNotFound(err):
		return fail(c, fiber.StatusNotFound, capitalize(err.Error()))
	default:
		return err
	}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": msg,
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// invalidBody is returned when the request body is not decodable JSON.
var invalidBody = domain.NewValidationError("body", "must be a valid JSON object")
