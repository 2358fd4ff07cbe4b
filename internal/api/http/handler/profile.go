package handler

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// ProfileService defines profile, privacy, directory and image operations.
type ProfileService interface {
	GetOwn(ctx context.Context, accountID uuid.UUID) (model.Account, error)
	GetPublic(ctx context.Context, rawID string) (model.Account, error)
	UpdateOwn(ctx context.Context, accountID uuid.UUID, update model.ProfileUpdate) (model.Account, error)
	GetPrivacySettings(ctx context.Context, accountID uuid.UUID) (model.PrivacySettings, error)
	UpdatePrivacySettings(ctx context.Context, accountID uuid.UUID, settings model.PrivacySettings) (model.Account, error)
	ListApproved(ctx context.Context, filter model.DirectoryFilter) ([]model.DirectoryEntry, error)
	UploadImage(ctx context.Context, accountID uuid.UUID, kind model.ImageKind, upload model.Upload) (model.Account, error)
	OpenImage(ctx context.Context, key string) (io.ReadCloser, error)
}

// Profile handles profile endpoints.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Profile) GetOwn(c *fiber.Ctx) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	account, err := h.profileService.GetOwn(c.UserContext(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(account)
}

// GetByID serves the public profile path; private profiles are refused.
func (h *Profile) GetByID(c *fiber.Ctx) error {
	account, err := h.profileService.GetPublic(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(account)
}

// UpdateOwn decodes the body through the profile allow-list, so keys such
// as isAdmin or status never reach the service.
func (h *Profile) UpdateOwn(c *fiber.Ctx) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	update, err := model.DecodeProfileUpdate(c.Body())
	if err != nil {
		return invalidBody(err)
	}

	account, err := h.profileService.UpdateOwn(c.UserContext(), accountID, update)
	if err != nil {
		return err
	}

	return c.JSON(account)
}

func (h *Profile) GetPrivacySettings(c *fiber.Ctx) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	settings, err := h.profileService.GetPrivacySettings(c.UserContext(), accountID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"privacySettings": settings})
}

// UpdatePrivacySettings treats the whole body as the new settings object.
func (h *Profile) UpdatePrivacySettings(c *fiber.Ctx) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	var settings model.PrivacySettings
	if err := c.BodyParser(&settings); err != nil {
		return invalidBody(err)
	}

	account, err := h.profileService.UpdatePrivacySettings(c.UserContext(), accountID, settings)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":         "Privacy settings updated successfully",
		"privacySettings": account.PrivacySettings,
	})
}

func (h *Profile) ListApproved(c *fiber.Ctx) error {
	filter := model.DirectoryFilter{
		Year:        c.Query("year"),
		Institution: c.Query("institution"),
		Course:      c.Query("course"),
		Query:       c.Query("q"),
	}

	entries, err := h.profileService.ListApproved(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.DirectoryEntry{}
	}

	return c.JSON(entries)
}

func (h *Profile) UploadProfileImage(c *fiber.Ctx) error {
	return h.uploadImage(c, model.ImageProfile, "Profile image updated")
}

func (h *Profile) UploadCoverImage(c *fiber.Ctx) error {
	return h.uploadImage(c, model.ImageCover, "Cover image updated")
}

func (h *Profile) uploadImage(c *fiber.Ctx, kind model.ImageKind, message string) error {
	accountID, err := callerID(h.contextManager, c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apierrors.NewErrValidation("No image uploaded", err)
	}

	f, err := file.Open()
	if err != nil {
		return apierrors.NewErrInternalServerError(err)
	}
	defer f.Close()

	account, err := h.profileService.UploadImage(c.UserContext(), accountID, kind, model.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Size:        file.Size,
		Reader:      f,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": message, "user": account})
}

// ServeImage streams a stored image.
func (h *Profile) ServeImage(c *fiber.Ctx) error {
	key := c.Params("key")

	rc, err := h.profileService.OpenImage(c.UserContext(), key)
	if err != nil {
		return err
	}

	contentType, ok := model.ImageContentTypes[strings.ToLower(filepath.Ext(key))]
	if !ok {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(rc)
}
