package testutil

import (
	"engeybot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewGroupMessage creates a group chat message from Ann
func NewGroupMessage(text string) domain.ChatMessage {
	return domain.ChatMessage{
		ChatID:         -100200300,
		ChatType:       domain.ChatSuperGroup,
		ChatTitle:      "Curious people",
		MessageID:      17,
		SenderID:       501,
		SenderName:     "Ann",
		SenderUsername: "ann",
		Text:           text,
	}
}

// NewPrivateMessage creates a private chat message from Bob
func NewPrivateMessage(text string) domain.ChatMessage {
	return domain.ChatMessage{
		ChatID:     502,
		ChatType:   domain.ChatPrivate,
		MessageID:  3,
		SenderID:   502,
		SenderName: "Bob",
		Text:       text,
	}
}
