package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/policy"
)

// Moderation decides pending registrations. Every operation requires an
// administrator caller.
type Moderation struct {
	accounts model.AccountStore
	logger   *logger.Logger
}

func NewModeration(accounts model.AccountStore, logger *logger.Logger) *Moderation {
	return &Moderation{
		accounts: accounts,
		logger:   logger,
	}
}

// ListPending returns accounts awaiting a decision, oldest first.
func (m *Moderation) ListPending(ctx context.Context, callerID uuid.UUID) ([]model.Account, error) {
	if err := m.authorize(ctx, callerID); err != nil {
		return nil, err
	}

	accounts, err := m.accounts.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		m.logger.Error("Moderation service: failed to list pending accounts",
			"error", err.Error())
		return nil, apierrors.NewErrInternalServerError(fmt.Errorf("failed to list pending accounts: %w", err))
	}
	return accounts, nil
}

// SetStatus approves or rejects a pending account.
func (m *Moderation) SetStatus(ctx context.Context, callerID uuid.UUID, rawTargetID string, status model.AccountStatus) (model.Account, error) {
	if err := m.authorize(ctx, callerID); err != nil {
		return model.Account{}, err
	}

	targetID, err := uuid.Parse(rawTargetID)
	if err != nil {
		return model.Account{}, apierrors.NewErrValidation("Invalid user ID", err)
	}
	if !status.Valid() {
		return model.Account{}, apierrors.NewErrValidation("Invalid status", fmt.Errorf("unknown status %q", status))
	}

	target, err := m.accounts.GetByID(ctx, targetID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by id: %w", err))
	}

	if !policy.CanTransition(target.Status, status) {
		return model.Account{}, apierrors.NewErrValidation(
			fmt.Sprintf("Cannot change status from %s to %s", target.Status, status), nil)
	}

	updated, err := m.accounts.UpdateStatus(ctx, targetID, target.Status, status)
	if errors.Is(err, model.ErrStatusChanged) {
		m.logger.Info("Moderation service: account decided concurrently",
			"account_id", targetID,
			"admin_id", callerID)
		return model.Account{}, apierrors.NewErrValidation("User status was already changed", err)
	}
	if err != nil {
		m.logger.Error("Moderation service: failed to update status",
			"account_id", targetID,
			"error", err.Error())
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to update status: %w", err))
	}

	m.logger.Info("Moderation service: account status changed",
		"account_id", targetID,
		"status", status,
		"admin_id", callerID)

	return updated, nil
}

func (m *Moderation) authorize(ctx context.Context, callerID uuid.UUID) error {
	caller, err := m.accounts.GetByID(ctx, callerID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrInvalidToken(fmt.Errorf("account %s no longer exists", callerID))
	}
	if err != nil {
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to get caller: %w", err))
	}
	return policy.AdminOnly(caller)
}
