package domain

import (
	"strconv"
	"strings"
)

// ChatType mirrors the platform's chat kinds
type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSuperGroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// ChatMessage is an inbound text message received from the platform
type ChatMessage struct {
	ChatID         int64
	ChatType       ChatType
	ChatTitle      string
	MessageID      int
	SenderID       int64
	SenderName     string
	SenderUsername string
	Text           string
}

// IsPrivate reports whether the message came from a one-to-one chat
func (m ChatMessage) IsPrivate() bool {
	return m.ChatType == ChatPrivate
}

// ChatLabel returns a human readable chat reference for admin logs
func (m ChatMessage) ChatLabel() string {
	if title := strings.TrimSpace(m.ChatTitle); title != "" {
		return title + " (" + strconv.FormatInt(m.ChatID, 10) + ")"
	}
	return strconv.FormatInt(m.ChatID, 10)
}

// SenderLabel returns a human readable sender reference for admin logs
func (m ChatMessage) SenderLabel() string {
	switch {
	case m.SenderUsername != "":
		return "@" + m.SenderUsername
	case m.SenderName != "":
		return m.SenderName
	default:
		return strconv.FormatInt(m.SenderID, 10)
	}
}
