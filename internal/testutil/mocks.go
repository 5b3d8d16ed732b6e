package testutil

import (
	"context"
	"sync"

	"engeybot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockChatRegistry is a mock for repository.ChatRegistry
type MockChatRegistry struct {
	mock.Mock
}

func (m *MockChatRegistry) IsKnown(ctx context.Context, chatID int64) (bool, error) {
	args := m.Called(ctx, chatID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRegistry) Record(ctx context.Context, chatID int64) (bool, error) {
	args := m.Called(ctx, chatID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRegistry) ListChatIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockCompleter is a mock for service.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockModerator is a mock for service.Moderator
type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Flagged(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}

// MockSynthesizer is a mock for service.Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockMessageSender is a mock for service.MessageSender
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendText(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

// MockReplier is a mock for service.Replier
type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) Typing() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockReplier) Reply(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *MockReplier) ReplyAudio(audio domain.Audio) error {
	args := m.Called(audio)
	return args.Error(0)
}

// RecordingNotifier collects admin notifications in order
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *RecordingNotifier) Notify(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

// Messages returns a copy of everything notified so far
func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}
