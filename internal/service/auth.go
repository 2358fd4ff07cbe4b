package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/policy"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateRegistration(r model.Registration) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Field(&r.Password, validation.Required),
	)
}

type Auth struct {
	accounts model.AccountStore
	hasher   model.PasswordHasher
	tokens      model.TokenManager
	logger      *logger.Logger
	phoneRegion string
	now         func() time.Time
}

func NewAuth(
	accounts model.AccountStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	logger *logger.Logger,
	phoneRegion string,
) *Auth {
	return &Auth{
		accounts:    accounts,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		phoneRegion: strings.ToUpper(phoneRegion),
		now:         time.Now,
	}
}

// Register creates a pending account and issues a token for it.
func (a *Auth) Register(ctx context.Context, req model.Registration) (model.AuthResult, error) {
	req.Email = model.NormalizeEmail(req.Email)

	a.logger.Debug("Auth service: starting registration",
		"email", req.Email)

	if err := validateRegistration(req); err != nil {
		return model.AuthResult{}, apierrors.NewErrValidation(err.Error(), err)
	}

	_, err := a.accounts.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		a.logger.Info("Auth service: account already exists",
			"email", req.Email)
		return model.AuthResult{}, apierrors.NewErrDuplicateAccount(req.Email)
	case !errors.Is(err, model.ErrNotFound):
		a.logger.Error("Auth service: failed to get account by email",
			"email", req.Email,
			"error", err.Error())
		return model.AuthResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by email: %w", err))
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, model.ErrPasswordTooLong) {
			return model.AuthResult{}, apierrors.NewErrValidation("Password is too long", err)
		}
		a.logger.Error("Auth service: failed to hash password",
			"email", req.Email,
			"error", err.Error())
		return model.AuthResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	now := a.now().UTC()
	account := model.Account{
		ID:               uuid.New(),
		Email:            req.Email,
		PasswordHash:     hash,
		Status:           model.StatusPending,
		Name:             strings.TrimSpace(req.Name),
		Phone:            normalizePhone(req.Phone, a.phoneRegion),
		DOB:              ParseBirthDate(req.DOB),
		Institution:      strings.TrimSpace(req.Institution),
		Course:           strings.TrimSpace(req.Course),
		Year:             strings.TrimSpace(req.Year),
		FavouriteTeacher: req.FavouriteTeacher,
		SocialMedia:      req.SocialMedia,
		Bio:              req.Bio,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	saved, err := a.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			a.logger.Info("Auth service: concurrent registration lost on unique email",
				"email", req.Email)
			return model.AuthResult{}, apierrors.NewErrDuplicateAccount(req.Email)
		}
		a.logger.Error("Auth service: failed to create account",
			"email", req.Email,
			"error", err.Error())
		return model.AuthResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to create account: %w", err))
	}

	result, err := a.issue(saved)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: account registered",
		"account_id", saved.ID)

	return result, nil
}

// Login verifies credentials and the moderation gate, then issues a token.
// An unknown email and a wrong password produce the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.AuthResult{}, apierrors.NewErrMissingCredentials("Email and password are required")
	}
	email = model.NormalizeEmail(email)

	a.logger.Debug("Auth service: starting login",
		"email", email)

	account, err := a.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email")
		return model.AuthResult{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get account by email",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by email: %w", err))
	}

	if err := a.verifyPassword(account, password, apierrors.NewErrInvalidCredentials()); err != nil {
		return model.AuthResult{}, err
	}

	if err := policy.LoginAllowed(account); err != nil {
		a.logger.Info("Auth service: login refused by status",
			"account_id", account.ID,
			"status", account.Status)
		return model.AuthResult{}, err
	}

	result, err := a.issue(account)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: login successful",
		"account_id", account.ID)

	return result, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (a *Auth) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apierrors.NewErrMissingCredentials("Current password and new password are required")
	}

	account, err := a.accounts.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by id: %w", err))
	}

	if err := a.verifyPassword(account, currentPassword, apierrors.NewErrIncorrectCurrentPassword()); err != nil {
		return err
	}

	if err := a.storePassword(ctx, account.ID, newPassword); err != nil {
		return err
	}

	a.logger.Info("Auth service: password changed",
		"account_id", account.ID)

	return nil
}

// ResetPassword sets a new password for the account registered under email.
// Knowing the email is the only proof required.
func (a *Auth) ResetPassword(ctx context.Context, email, newPassword string) error {
	if strings.TrimSpace(email) == "" || newPassword == "" {
		return apierrors.NewErrMissingCredentials("Email and new password are required")
	}
	email = model.NormalizeEmail(email)

	account, err := a.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("Email not found")
	}
	if err != nil {
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by email: %w", err))
	}

	if err := a.storePassword(ctx, account.ID, newPassword); err != nil {
		return err
	}

	a.logger.Warn("Auth service: password reset by email",
		"account_id", account.ID)

	return nil
}

func (a *Auth) verifyPassword(account model.Account, password string, mismatch error) error {
	ok, err := a.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: stored credential is unreadable",
			"account_id", account.ID,
			"error", err.Error())
		return apierrors.NewErrCorruptCredential(err)
	}
	if !ok {
		return mismatch
	}
	return nil
}

func (a *Auth) storePassword(ctx context.Context, accountID uuid.UUID, password string) error {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, model.ErrPasswordTooLong) {
			return apierrors.NewErrValidation("Password is too long", err)
		}
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	err = a.accounts.UpdatePasswordHash(ctx, accountID, hash)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		a.logger.Error("Auth service: failed to store password",
			"account_id", accountID,
			"error", err.Error())
		return apierrors.NewErrInternalServerError(fmt.Errorf("failed to update password: %w", err))
	}
	return nil
}

func (a *Auth) issue(account model.Account) (model.AuthResult, error) {
	token, err := a.tokens.Issue(account.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"account_id", account.ID,
			"error", err.Error())
		return model.AuthResult{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to issue token: %w", err))
	}
	return model.AuthResult{
		ID:     account.ID,
		Email:  account.Email,
		Status: account.Status,
		Token:  token,
	}, nil
}
