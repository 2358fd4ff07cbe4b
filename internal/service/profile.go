package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/segmentio/ksuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
	"github.com/dtroode/alumni-portal-server/internal/policy"
)

// UploadsPath is the public prefix under which stored images are served.
const UploadsPath = "/uploads/"

var imageKeyPattern = regexp.MustCompile(`^user-[0-9A-Za-z]{27}(\.(png|jpe?g|gif|webp))?$`)

type Profile struct {
	accounts     model.AccountStore
	storage      model.Storage
	logger       *logger.Logger
	phoneRegion  string
	maxImageSize int64
}

func NewProfile(
	accounts model.AccountStore,
	storage model.Storage,
	logger *logger.Logger,
	phoneRegion string,
	maxImageSize int64,
) *Profile {
	return &Profile{
		accounts:     accounts,
		storage:      storage,
		logger:       logger,
		phoneRegion:  strings.ToUpper(phoneRegion),
		maxImageSize: maxImageSize,
	}
}

// GetOwn returns the caller's own account.
func (p *Profile) GetOwn(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	return p.load(ctx, accountID)
}

// GetPublic returns the account identified by rawID unless its profile is
// private. Private profiles are refused for every caller.
func (p *Profile) GetPublic(ctx context.Context, rawID string) (model.Account, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.Account{}, apierrors.NewErrValidation("Invalid user ID", err)
	}

	account, err := p.load(ctx, id)
	if err != nil {
		return model.Account{}, err
	}

	if err := policy.PublicProfileVisible(account); err != nil {
		p.logger.Debug("Profile service: private profile requested",
			"account_id", id)
		return model.Account{}, err
	}

	return account, nil
}

// UpdateOwn validates and applies an allow-listed profile update.
func (p *Profile) UpdateOwn(ctx context.Context, accountID uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	if err := p.validateUpdate(&update); err != nil {
		return model.Account{}, apierrors.NewErrValidation(err.Error(), err)
	}

	account, err := p.accounts.UpdateProfile(ctx, accountID, update)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		p.logger.Error("Profile service: failed to update profile",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to update profile: %w", err))
	}

	p.logger.Info("Profile service: profile updated",
		"account_id", accountID)

	return account, nil
}

// validateUpdate checks every provided field and fills the normalized
// values (E.164 phone, parsed date of birth).
func (p *Profile) validateUpdate(u *model.ProfileUpdate) error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Name, validation.RuneLength(1, 100)),
		validation.Field(&u.Phone, validation.By(p.validPhone)),
		validation.Field(&u.DOB, validation.By(validBirthDate)),
		validation.Field(&u.Institution, validation.RuneLength(0, 200)),
		validation.Field(&u.Course, validation.RuneLength(0, 200)),
		validation.Field(&u.Year, validation.Length(4, 4), is.Digit),
		validation.Field(&u.FavouriteTeacher, validation.RuneLength(0, 200)),
		validation.Field(&u.SocialMedia, validation.RuneLength(0, 500)),
		validation.Field(&u.Bio, validation.RuneLength(0, 2000)),
	)
	if err != nil {
		return err
	}

	if u.Phone != nil && *u.Phone != "" {
		formatted := normalizePhone(*u.Phone, p.phoneRegion)
		u.Phone = &formatted
	}
	if u.DOB != nil {
		u.ParsedDOB = ParseBirthDate(*u.DOB)
	}
	return nil
}

// normalizePhone formats raw as E.164 when it parses as a valid number for
// region and otherwise returns it trimmed.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func (p *Profile) validPhone(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	num, err := phonenumbers.Parse(s, p.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// validBirthDate accepts an empty value, which clears the stored date.
func validBirthDate(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if ParseBirthDate(s) == nil {
		return errors.New("must be a date in YYYY-MM-DD or DD-MM-YYYY format")
	}
	return nil
}

func (p *Profile) GetPrivacySettings(ctx context.Context, accountID uuid.UUID) (model.PrivacySettings, error) {
	account, err := p.load(ctx, accountID)
	if err != nil {
		return model.PrivacySettings{}, err
	}
	return account.PrivacySettings, nil
}

// UpdatePrivacySettings replaces the caller's privacy settings as a whole.
func (p *Profile) UpdatePrivacySettings(ctx context.Context, accountID uuid.UUID, settings model.PrivacySettings) (model.Account, error) {
	err := validation.ValidateStruct(&settings,
		validation.Field(&settings.ProfileVisibility, validation.In(model.VisibilityPublic, model.VisibilityPrivate)),
	)
	if err != nil {
		return model.Account{}, apierrors.NewErrValidation(err.Error(), err)
	}

	account, err := p.accounts.UpdatePrivacySettings(ctx, accountID, settings)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		p.logger.Error("Profile service: failed to update privacy settings",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to update privacy settings: %w", err))
	}

	p.logger.Info("Profile service: privacy settings replaced",
		"account_id", accountID,
		"visibility", account.PrivacySettings.EffectiveVisibility())

	return account, nil
}

// ListApproved returns the approved-alumni directory.
func (p *Profile) ListApproved(ctx context.Context, filter model.DirectoryFilter) ([]model.DirectoryEntry, error) {
	filter.Year = strings.TrimSpace(filter.Year)
	filter.Institution = strings.TrimSpace(filter.Institution)
	filter.Course = strings.TrimSpace(filter.Course)
	filter.Query = strings.TrimSpace(filter.Query)

	entries, err := p.accounts.ListApproved(ctx, filter)
	if err != nil {
		p.logger.Error("Profile service: failed to list approved accounts",
			"error", err.Error())
		return nil, apierrors.NewErrInternalServerError(fmt.Errorf("failed to list approved accounts: %w", err))
	}
	return entries, nil
}

// UploadImage stores an image and points the account's profile or cover
// image at it. The previous object is removed on a best-effort basis.
func (p *Profile) UploadImage(ctx context.Context, accountID uuid.UUID, kind model.ImageKind, upload model.Upload) (model.Account, error) {
	if upload.Reader == nil {
		return model.Account{}, apierrors.NewErrValidation("No image uploaded", nil)
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return model.Account{}, apierrors.NewErrValidation("Only image files are allowed", nil)
	}
	if upload.Size > p.maxImageSize {
		return model.Account{}, apierrors.NewErrValidation(fmt.Sprintf("File too large. Max %dMB.", p.maxImageSize>>20), nil)
	}

	current, err := p.load(ctx, accountID)
	if err != nil {
		return model.Account{}, err
	}

	key := imageKey(upload.Filename, upload.ContentType)
	if err := p.storage.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		p.logger.Error("Profile service: failed to store image",
			"account_id", accountID,
			"key", key,
			"error", err.Error())
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to upload image: %w", err))
	}

	account, err := p.accounts.UpdateImage(ctx, accountID, kind, UploadsPath+key)
	if err != nil {
		if delErr := p.storage.Delete(ctx, key); delErr != nil {
			p.logger.Warn("Profile service: failed to remove orphaned image",
				"key", key,
				"error", delErr.Error())
		}
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, apierrors.NewErrNotFound("User not found")
		}
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to update image: %w", err))
	}

	previous := current.ProfileImage
	if kind == model.ImageCover {
		previous = current.CoverImage
	}
	if oldKey, ok := strings.CutPrefix(previous, UploadsPath); ok && oldKey != "" && oldKey != key {
		if err := p.storage.Delete(ctx, oldKey); err != nil {
			p.logger.Warn("Profile service: failed to delete previous image",
				"account_id", accountID,
				"key", oldKey,
				"error", err.Error())
		}
	}

	p.logger.Info("Profile service: image uploaded",
		"account_id", accountID,
		"kind", kind,
		"key", key)

	return account, nil
}

// OpenImage returns a reader for a stored image. The caller closes it.
func (p *Profile) OpenImage(ctx context.Context, key string) (io.ReadCloser, error) {
	if !imageKeyPattern.MatchString(key) {
		return nil, apierrors.NewErrNotFound("Image not found")
	}

	exists, err := p.storage.Exists(ctx, key)
	if err != nil {
		return nil, apierrors.NewErrInternalServerError(fmt.Errorf("failed to check image: %w", err))
	}
	if !exists {
		return nil, apierrors.NewErrNotFound("Image not found")
	}

	rc, err := p.storage.Download(ctx, key)
	if err != nil {
		return nil, apierrors.NewErrInternalServerError(fmt.Errorf("failed to download image: %w", err))
	}
	return rc, nil
}

func (p *Profile) load(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	account, err := p.accounts.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, apierrors.NewErrNotFound("User not found")
	}
	if err != nil {
		p.logger.Error("Profile service: failed to get account",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, apierrors.NewErrInternalServerError(fmt.Errorf("failed to get account by id: %w", err))
	}
	return account, nil
}

// imageKey builds a unique object key. Only image extensions are kept, so a
// stored key can never be served as anything but an image.
func imageKey(filename, contentType string) string {
	return "user-" + ksuid.New().String() + model.ImageExtension(filename, contentType)
}
