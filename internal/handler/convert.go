package handler

import (
	"engeybot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// toChatMessage maps a platform message onto the relay's message type
func toChatMessage(m *tele.Message) domain.ChatMessage {
	msg := domain.ChatMessage{
		MessageID: m.ID,
		Text:      m.Text,
	}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
		msg.ChatType = domain.ChatType(m.Chat.Type)
		msg.ChatTitle = m.Chat.Title
	}
	if m.Sender != nil {
		msg.SenderID = m.Sender.ID
		msg.SenderName = m.Sender.FirstName
		msg.SenderUsername = m.Sender.Username
	}
	return msg
}
