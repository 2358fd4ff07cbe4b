package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(accountID uuid.UUID) (string, error) {
	ret := m.Called(accountID)
	return ret.String(0), ret.Error(1)
}

func (m *TokenManager) Verify(token string) (uuid.UUID, error) {
	ret := m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
