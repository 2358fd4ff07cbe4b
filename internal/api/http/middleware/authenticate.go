package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// TokenVerifier resolves an account ID from a bearer token.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the account ID into the
// request context.
type Authenticate struct {
	tokens         TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle rejects the request unless it carries a valid bearer token.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	tokenString, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if !ok || tokenString == "" {
		return apierrors.NewErrMissingAuthorizationToken()
	}

	accountID, err := m.tokens.Verify(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"path", c.Path(),
			"error", err.Error())
		if errors.Is(err, model.ErrExpiredToken) {
			return apierrors.NewErrExpiredToken(err)
		}
		return apierrors.NewErrInvalidToken(err)
	}
	if accountID == uuid.Nil {
		return apierrors.NewErrInvalidToken(model.ErrInvalidToken)
	}

	c.SetUserContext(m.contextManager.SetAccountIDToContext(c.UserContext(), accountID))
	return c.Next()
}
