package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// AuthService defines registration, login and password operations.
type AuthService interface {
	Register(ctx context.Context, req model.Registration) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Auth handles authentication endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates a pending account and responds with 201 and a token.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req model.Registration
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	result, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *Auth) ChangePassword(c *fiber.Ctx) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	if err := h.authService.ChangePassword(c.UserContext(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// ResetPassword is unauthenticated: knowing the email is enough.
func (h *Auth) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
