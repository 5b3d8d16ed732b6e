package handler

import (
	tele "gopkg.in/telebot.v3"
)

// BotSender implements service.MessageSender on top of the bot API
type BotSender struct {
	bot *tele.Bot
}

// NewBotSender creates a sender bound to bot
func NewBotSender(bot *tele.Bot) *BotSender {
	return &BotSender{bot: bot}
}

// SendText sends text to chatID without a reply reference
func (s *BotSender) SendText(chatID int64, text string) error {
	_, err := s.bot.Send(tele.ChatID(chatID), text)
	return err
}
