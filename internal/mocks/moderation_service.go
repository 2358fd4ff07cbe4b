package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

// ModerationService is a mock of handler.ModerationService.
type ModerationService struct {
	mock.Mock
}

func (m *ModerationService) ListPending(ctx context.Context, callerID uuid.UUID) ([]model.Account, error) {
	ret := m.Called(ctx, callerID)
	var accounts []model.Account
	if v := ret.Get(0); v != nil {
		accounts = v.([]model.Account)
	}
	return accounts, ret.Error(1)
}

func (m *ModerationService) SetStatus(ctx context.Context, callerID uuid.UUID, rawTargetID string, status model.AccountStatus) (model.Account, error) {
	ret := m.Called(ctx, callerID, rawTargetID, status)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func NewModerationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ModerationService {
	m := &ModerationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
