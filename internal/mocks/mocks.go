package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-simulator/internal/models"
)

type TimelineMock struct {
	mock.Mock
}

func (m *TimelineMock) SetIdentity(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *TimelineMock) SendUserMessage(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *TimelineMock) SetLocalTyping(typing bool) {
	m.Called(typing)
}

func (m *TimelineMock) SetFocused(focused bool) {
	m.Called(focused)
}

func (m *TimelineMock) Snapshot() models.Snapshot {
	args := m.Called()
	var snap models.Snapshot
	if val := args.Get(0); val != nil {
		snap = val.(models.Snapshot)
	}
	return snap
}

type KVMock struct {
	mock.Mock
}

func (m *KVMock) ReadJSON(ctx context.Context, key string, dest any) bool {
	args := m.Called(ctx, key, dest)
	return args.Bool(0)
}

func (m *KVMock) WriteJSON(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
