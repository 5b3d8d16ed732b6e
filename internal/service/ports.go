package service

import (
	"context"

	"engeybot/internal/domain"
)

// Completer turns a prompt into generated text
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Moderator screens prompts before they reach the completer
type Moderator interface {
	Flagged(ctx context.Context, text string) (bool, error)
}

// Synthesizer turns text into playable audio
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Notifier delivers operational messages to the administrative chat
type Notifier interface {
	Notify(text string)
}

// MessageSender sends plain text to an arbitrary chat
type MessageSender interface {
	SendText(chatID int64, text string) error
}

// Replier answers in the chat an inbound message came from
type Replier interface {
	Typing() error
	Reply(text string) error
	ReplyAudio(audio domain.Audio) error
}
