package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	db Pinger
}

func NewHealth(db Pinger) *Health {
	return &Health{db: db}
}

func (h *Health) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Health) Database(c *fiber.Ctx) error {
	if err := h.db.Ping(c.UserContext()); err != nil {
		return apierrors.NewErrInternalServerError(err)
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "connected"})
}
