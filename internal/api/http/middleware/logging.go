package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/alumni-portal-server/internal/logger"
)

// Logging logs every HTTP request with its outcome.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, status and duration. Chain errors are rendered
// through the app error handler first so the final status is known.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	if err != nil {
		if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	}

	switch {
	case status >= fiber.StatusInternalServerError:
		l.logger.Error("HTTP request completed", attrs...)
	case status >= fiber.StatusBadRequest:
		l.logger.Warn("HTTP request completed", attrs...)
	default:
		l.logger.Info("HTTP request completed", attrs...)
	}

	return nil
}
