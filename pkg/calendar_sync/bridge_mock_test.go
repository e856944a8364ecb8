package calendar_sync

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	"golang.org/x/oauth2"
)

type bridgeMock struct {
	mock.Mock
}

func (m *bridgeMock) IsConnected(ctx context.Context, userId int) (bool, error) {
	args := m.Called(ctx, userId)
	return args.Bool(0), args.Error(1)
}

func (m *bridgeMock) AuthURL(ctx context.Context, userId int, finalUrl string) (string, error) {
	args := m.Called(ctx, userId, finalUrl)
	return args.String(0), args.Error(1)
}

func (m *bridgeMock) HandleCallback(ctx context.Context, code, state string) (string, error) {
	args := m.Called(ctx, code, state)
	return args.String(0), args.Error(1)
}

func (m *bridgeMock) SaveTokens(ctx context.Context, userId int, token *oauth2.Token) error {
	return m.Called(ctx, userId, token).Error(0)
}

func (m *bridgeMock) LoadTokens(ctx context.Context, userId int) (*oauth2.Token, error) {
	args := m.Called(ctx, userId)
	token, _ := args.Get(0).(*oauth2.Token)
	return token, args.Error(1)
}

func (m *bridgeMock) SyncEvents(ctx context.Context, userId int, subjects []subject.Subject, customEvents []custom_event.Event) (Result, error) {
	args := m.Called(ctx, userId, subjects, customEvents)
	return args.Get(0).(Result), args.Error(1)
}

func (m *bridgeMock) Disconnect(ctx context.Context, userId int) error {
	return m.Called(ctx, userId).Error(0)
}
