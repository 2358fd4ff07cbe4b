package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/alumni-portal-server/internal/model"
)

// AuthService is a mock of handler.AuthService.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, req model.Registration) (model.AuthResult, error) {
	ret := m.Called(ctx, req)
	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

func (m *AuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

func (m *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	ret := m.Called(ctx, accountID, currentPassword, newPassword)
	return ret.Error(0)
}

func (m *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	ret := m.Called(ctx, email, newPassword)
	return ret.Error(0)
}

func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
