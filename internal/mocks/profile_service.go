package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

// ProfileService is a mock of handler.ProfileService.
type ProfileService struct {
	mock.Mock
}

func (m *ProfileService) GetOwn(ctx context.Context, accountID uuid.UUID) (model.Account, error) {
	ret := m.Called(ctx, accountID)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *ProfileService) GetPublic(ctx context.Context, rawID string) (model.Account, error) {
	ret := m.Called(ctx, rawID)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *ProfileService) UpdateOwn(ctx context.Context, accountID uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	ret := m.Called(ctx, accountID, update)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *ProfileService) GetPrivacySettings(ctx context.Context, accountID uuid.UUID) (model.PrivacySettings, error) {
	ret := m.Called(ctx, accountID)
	return ret.Get(0).(model.PrivacySettings), ret.Error(1)
}

func (m *ProfileService) UpdatePrivacySettings(ctx context.Context, accountID uuid.UUID, settings model.PrivacySettings) (model.Account, error) {
	ret := m.Called(ctx, accountID, settings)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *ProfileService) ListApproved(ctx context.Context, filter model.DirectoryFilter) ([]model.DirectoryEntry, error) {
	ret := m.Called(ctx, filter)
	var entries []model.DirectoryEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]model.DirectoryEntry)
	}
	return entries, ret.Error(1)
}

func (m *ProfileService) UploadImage(ctx context.Context, accountID uuid.UUID, kind model.ImageKind, upload model.Upload) (model.Account, error) {
	ret := m.Called(ctx, accountID, kind, upload)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *ProfileService) OpenImage(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := m.Called(ctx, key)
	var rc io.ReadCloser
	if v := ret.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, ret.Error(1)
}

func NewProfileService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProfileService {
	m := &ProfileService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
