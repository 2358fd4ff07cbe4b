package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// ModerationService defines the admin moderation queue.
type ModerationService interface {
	ListPending(ctx context.Context, callerID uuid.UUID) ([]model.Account, error)
	SetStatus(ctx context.Context, callerID uuid.UUID, rawTargetID string, status model.AccountStatus) (model.Account, error)
}

type setStatusRequest struct {
	Status model.AccountStatus `json:"status"`
}

// Moderation handles admin endpoints.
type Moderation struct {
	moderationService ModerationService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

func NewModeration(moderationService ModerationService, contextManager model.ContextManager, logger *logger.Logger) *Moderation {
	return &Moderation{
		moderationService: moderationService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

func (h *Moderation) ListPending(c *fiber.Ctx) error {
	adminID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	accounts, err := h.moderationService.ListPending(c.UserContext(), adminID)
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []model.Account{}
	}

	return c.JSON(accounts)
}

func (h *Moderation) SetStatus(c *fiber.Ctx) error {
	adminID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	account, err := h.moderationService.SetStatus(c.UserContext(), adminID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	h.logger.Info("Moderation handler: status updated",
		"account_id", account.ID,
		"status", account.Status)

	return c.JSON(fiber.Map{"message": "User status updated", "user": account})
}
