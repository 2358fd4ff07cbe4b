package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ContextManager is a mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func (m *ContextManager) SetAccountIDToContext(ctx context.Context, accountID uuid.UUID) context.Context {
	ret := m.Called(ctx, accountID)
	return ret.Get(0).(context.Context)
}

func (m *ContextManager) GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ret := m.Called(ctx)
	return ret.Get(0).(uuid.UUID), ret.Bool(1)
}

func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
