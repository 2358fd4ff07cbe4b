package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

// AccountStore is a mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	ret := m.Called(ctx, email)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) Create(ctx context.Context, account model.Account) (model.Account, error) {
	ret := m.Called(ctx, account)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	ret := m.Called(ctx, id, update)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) UpdatePrivacySettings(ctx context.Context, id uuid.UUID, settings model.PrivacySettings) (model.Account, error) {
	ret := m.Called(ctx, id, settings)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	ret := m.Called(ctx, id, passwordHash)
	return ret.Error(0)
}

func (m *AccountStore) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AccountStatus) (model.Account, error) {
	ret := m.Called(ctx, id, from, to)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) UpdateImage(ctx context.Context, id uuid.UUID, kind model.ImageKind, url string) (model.Account, error) {
	ret := m.Called(ctx, id, kind, url)
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, model.ImageKind, string) model.Account); ok {
		return rf(ctx, id, kind, url), ret.Error(1)
	}
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) ListApproved(ctx context.Context, filter model.DirectoryFilter) ([]model.DirectoryEntry, error) {
	ret := m.Called(ctx, filter)
	var entries []model.DirectoryEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]model.DirectoryEntry)
	}
	return entries, ret.Error(1)
}

func (m *AccountStore) ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.Account, error) {
	ret := m.Called(ctx, status)
	var accounts []model.Account
	if v := ret.Get(0); v != nil {
		accounts = v.([]model.Account)
	}
	return accounts, ret.Error(1)
}

// NewAccountStore creates an AccountStore whose expectations are asserted on cleanup.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
