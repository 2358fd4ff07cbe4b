package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
)

// NewErrorHandler returns the fiber error handler. Every failure is written
// as {"message": ...}; in dev mode the internal cause is added as "error".
func NewErrorHandler(logger *logger.Logger, devMode bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, body := handleError(err, devMode)
		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP handler: request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error())
		}
		return c.Status(code).JSON(body)
	}
}

func handleError(err error, devMode bool) (int, fiber.Map) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		body := fiber.Map{"message": apiErr.Message}
		if devMode && apiErr.Err != nil {
			body["error"] = apiErr.Err.Error()
		}
		return apiErr.HTTPCode, body
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiber.Map{"message": fiberErr.Message}
	}

	body := fiber.Map{"message": "Server error"}
	if devMode {
		body["error"] = err.Error()
	}
	return fiber.StatusInternalServerError, body
}
