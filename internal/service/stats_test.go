package service

import (
	"context"
	"fmt"
	"testing"

	"engeybot/internal/domain"
	"engeybot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Report(t *testing.T) {
	tests := []struct {
		name          string
		ids           []int64
		mockError     error
		expectedError bool
		expectedNote  []string
	}{
		{
			name:         "successful report",
			ids:          []int64{1, -100, 42},
			expectedNote: []string{"#stats Known chats: 3"},
		},
		{
			name:         "empty registry",
			ids:          []int64{},
			expectedNote: []string{"#stats Known chats: 0"},
		},
		{
			name:          "registry error",
			mockError:     fmt.Errorf("%w: disk gone", domain.ErrStoreUnavailable),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockChatRegistry)
			if tt.mockError != nil {
				mockRepo.On("ListChatIDs", mock.Anything).Return(nil, tt.mockError)
			} else {
				mockRepo.On("ListChatIDs", mock.Anything).Return(tt.ids, nil)
			}
			notifier := new(testutil.RecordingNotifier)

			logger := testutil.NewTestLogger()
			service := NewStatsService(mockRepo, notifier, logger)

			err := service.Report(context.Background())

			if tt.expectedError {
				assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
				assert.Empty(t, notifier.Messages())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedNote, notifier.Messages())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
