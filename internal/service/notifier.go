package service

import (
	"go.uber.org/zap"
)

// adminMessageLimit is the platform's maximum text message length
const adminMessageLimit = 4096

// AdminNotifier forwards operational messages to the administrative chat.
// Delivery is best effort: failures are logged and dropped.
type AdminNotifier struct {
	sender MessageSender
	chatID int64
	logger *zap.Logger
}

// NewAdminNotifier creates a notifier targeting chatID
func NewAdminNotifier(sender MessageSender, chatID int64, logger *zap.Logger) *AdminNotifier {
	return &AdminNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// Notify sends text to the admin chat, truncated to the platform limit
func (n *AdminNotifier) Notify(text string) {
	if err := n.sender.SendText(n.chatID, truncateRunes(text, adminMessageLimit)); err != nil {
		n.logger.Warn("Failed to notify admin chat",
			zap.Int64("admin_chat_id", n.chatID),
			zap.Error(err),
		)
	}
}
