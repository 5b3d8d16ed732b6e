package handler

import (
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	m := c.Message()
	if m == nil {
		return nil
	}
	msg := toChatMessage(m)

	h.logger.Info("Chat started bot",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("username", msg.SenderUsername),
	)

	h.services.Notifier.Notify(fmt.Sprintf("#newuser %s from %s", msg.ChatLabel(), msg.SenderLabel()))

	return c.Send(fmt.Sprintf("Please send your questions in the following format: <your question> %s", h.settings.Marker))
}
