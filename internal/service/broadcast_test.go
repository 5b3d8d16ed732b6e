package service

import (
	"context"
	"errors"
	"testing"

	"engeybot/internal/domain"
	"engeybot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcastService_Send(t *testing.T) {
	mockRepo := new(testutil.MockChatRegistry)
	sender := new(testutil.MockMessageSender)
	mockRepo.On("ListChatIDs", mock.Anything).Return([]int64{1, 2, 3}, nil)
	sender.On("SendText", int64(1), "maintenance tonight").Return(nil)
	sender.On("SendText", int64(2), "maintenance tonight").Return(errors.New("bot was blocked by the user"))
	sender.On("SendText", int64(3), "maintenance tonight").Return(nil)

	service := NewBroadcastService(mockRepo, sender, testutil.NewTestLogger())
	res, err := service.Send(context.Background(), "maintenance tonight")

	require.NoError(t, err)
	assert.Equal(t, BroadcastResult{Total: 3, Sent: 2, Failed: 1}, res)
	assert.Equal(t, "Broadcast sent: 2 ok, 1 failed.", res.Summary())
	sender.AssertExpectations(t)
}

func TestBroadcastService_EmptyText(t *testing.T) {
	mockRepo := new(testutil.MockChatRegistry)
	sender := new(testutil.MockMessageSender)

	service := NewBroadcastService(mockRepo, sender, testutil.NewTestLogger())
	_, err := service.Send(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyBroadcast)
	mockRepo.AssertNotCalled(t, "ListChatIDs", mock.Anything)
}

func TestBroadcastService_RegistryError(t *testing.T) {
	mockRepo := new(testutil.MockChatRegistry)
	sender := new(testutil.MockMessageSender)
	mockRepo.On("ListChatIDs", mock.Anything).Return(nil, domain.ErrStoreUnavailable)

	service := NewBroadcastService(mockRepo, sender, testutil.NewTestLogger())
	_, err := service.Send(context.Background(), "hello")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything)
}

func TestBroadcastService_StopsOnCancel(t *testing.T) {
	mockRepo := new(testutil.MockChatRegistry)
	sender := new(testutil.MockMessageSender)
	mockRepo.On("ListChatIDs", mock.Anything).Return([]int64{1, 2}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewBroadcastService(mockRepo, sender, testutil.NewTestLogger())
	res, err := service.Send(ctx, "hello")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, BroadcastResult{Total: 2, Failed: 2}, res)
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything)
}
