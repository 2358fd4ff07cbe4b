// Package policy holds the authorization gates applied to accounts. Each gate
// inspects a single account and returns nil or an APIError.
package policy

import (
	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// LoginAllowed passes only approved accounts.
func LoginAllowed(account model.Account) error {
	if account.Status != model.StatusApproved {
		return apierrors.NewErrNotApproved()
	}
	return nil
}

// PublicProfileVisible passes accounts whose profile is not private. The
// requester's identity is not considered: a private profile is
// hidden from everyone on the public path, its owner included.
func PublicProfileVisible(account model.Account) error {
	if account.PrivacySettings.EffectiveVisibility() == model.VisibilityPrivate {
		return apierrors.NewErrProfileForbidden()
	}
	return nil
}

// AdminOnly passes accounts flagged as administrators.
func AdminOnly(account model.Account) error {
	if !account.IsAdmin {
		return apierrors.NewErrAdminRequired()
	}
	return nil
}

// CanTransition reports whether moderation may move an account from one
// status to another. Only pending accounts can be decided.
func CanTransition(from, to model.AccountStatus) bool {
	return from == model.StatusPending && (to == model.StatusApproved || to == model.StatusRejected)
}
