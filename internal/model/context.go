package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager stores the authenticated account ID in a request context.
type ContextManager interface {
	SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context
	GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
