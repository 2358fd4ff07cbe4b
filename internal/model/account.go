package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (Account, error)
	UpdatePrivacySettings(ctx context.Context, id uuid.UUID, settings PrivacySettings) (Account, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	// UpdateStatus moves the account from one status to another and fails
	// with ErrStatusChanged when its current status is not from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AccountStatus) (Account, error)
	UpdateImage(ctx context.Context, id uuid.UUID, kind ImageKind, url string) (Account, error)
	ListApproved(ctx context.Context, filter DirectoryFilter) ([]DirectoryEntry, error)
	ListByStatus(ctx context.Context, status AccountStatus) ([]Account, error)
}

// AccountStatus is the moderation state of an account.
type AccountStatus string

const (
	// StatusPending is assigned at registration.
	StatusPending AccountStatus = "pending"
	// StatusApproved allows the account to log in.
	StatusApproved AccountStatus = "approved"
	// StatusRejected is terminal.
	StatusRejected AccountStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ProfileVisibility controls who may read a profile through the public path.
type ProfileVisibility string

const (
	VisibilityPublic  ProfileVisibility = "public"
	VisibilityPrivate ProfileVisibility = "private"
)

// PrivacySettings is replaced as a whole on update.
type PrivacySettings struct {
	ProfileVisibility ProfileVisibility `json:"profileVisibility,omitempty"`
}

// EffectiveVisibility returns the visibility with the public default applied.
func (p PrivacySettings) EffectiveVisibility() ProfileVisibility {
	if p.ProfileVisibility == "" {
		return VisibilityPublic
	}
	return p.ProfileVisibility
}

// Account represents a registered alumni account.
type Account struct {
	ID               uuid.UUID       `json:"id"`
	Email            string          `json:"email"`
	PasswordHash     string          `json:"-"`
	Status           AccountStatus   `json:"status"`
	IsAdmin          bool            `json:"isAdmin"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone"`
	DOB              *time.Time      `json:"dob"`
	Institution      string          `json:"institution"`
	Course           string          `json:"course"`
	Year             string          `json:"year"`
	FavouriteTeacher string          `json:"favouriteTeacher"`
	SocialMedia      string          `json:"socialMedia"`
	Bio              string          `json:"bio"`
	ProfileImage     string          `json:"profileImage"`
	CoverImage       string          `json:"coverImage"`
	PrivacySettings  PrivacySettings `json:"privacySettings"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ProfileUpdate is the allow-list of fields an owner may change through a
// profile update. Fields absent from this struct (email, status, isAdmin,
// password, id) can never be written through it. Nil means "leave as is".
type ProfileUpdate struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	DOB              *string `json:"dob"`
	Institution      *string `json:"institution"`
	Course           *string `json:"course"`
	Year             *string `json:"year"`
	FavouriteTeacher *string `json:"favouriteTeacher"`
	SocialMedia      *string `json:"socialMedia"`
	Bio              *string `json:"bio"`

	// ParsedDOB is filled by the service after validating DOB.
	ParsedDOB *time.Time `json:"-"`
}

// DecodeProfileUpdate projects an arbitrary JSON object onto ProfileUpdate.
// Keys outside the allow-list are dropped.
func DecodeProfileUpdate(data []byte) (ProfileUpdate, error) {
	var update ProfileUpdate
	if len(data) == 0 {
		return update, nil
	}
	if err := json.Unmarshal(data, &update); err != nil {
		return ProfileUpdate{}, fmt.Errorf("failed to decode profile update: %w", err)
	}
	update.ParsedDOB = nil
	return update, nil
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.DOB == nil && u.Institution == nil &&
		u.Course == nil && u.Year == nil && u.FavouriteTeacher == nil && u.SocialMedia == nil && u.Bio == nil
}

// ImageKind selects which account image an upload replaces.
type ImageKind string

const (
	ImageProfile ImageKind = "profile"
	ImageCover   ImageKind = "cover"
)

// DirectoryFilter narrows the approved-alumni directory.
type DirectoryFilter struct {
	Year        string
	Institution string
	Course      string
	Query       string
}

// DirectoryLimit caps directory listings.
const DirectoryLimit = 200

// DirectoryEntry is the public projection listed in the directory.
type DirectoryEntry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Institution string    `json:"institution"`
	Course      string    `json:"course"`
	Year        string    `json:"year"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
