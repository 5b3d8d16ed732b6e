package handler

import (
	"context"

	tele "gopkg.in/telebot.v3"
)

// handleText passes every text message through the relay.
// Failures are handled inside the relay, so the update always succeeds.
func (h *Handler) handleText(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Chat == nil {
		return nil
	}

	h.services.Relay.Handle(context.Background(), toChatMessage(m), newContextReplier(c))
	return nil
}
