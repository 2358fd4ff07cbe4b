package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// callerID returns the account ID the authentication middleware stored.
func callerID(cm model.ContextManager, c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := cm.GetAccountIDFromContext(c.UserContext())
	if !ok {
		return uuid.Nil, apierrors.NewErrMissingAuthorizationToken()
	}
	return id, nil
}

func invalidBody(err error) error {
	return apierrors.NewErrValidation("Invalid request body", err)
}
