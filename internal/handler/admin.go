package handler

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"engeybot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const broadcastUsage = "Usage: /broadcast <text>"

// handleBroadcast sends the command payload to every known chat
func (h *Handler) handleBroadcast(c tele.Context) error {
	text := commandPayload(c.Text())

	res, err := h.services.Broadcast.Send(context.Background(), text)
	if errors.Is(err, service.ErrEmptyBroadcast) {
		return c.Send(broadcastUsage)
	}
	if err != nil {
		h.logger.Error("Broadcast failed", zap.Error(err))
		return c.Send("Broadcast failed: " + err.Error())
	}

	return c.Send(res.Summary())
}

// handleStats replies with the registry summary
func (h *Handler) handleStats(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.settings.Timeout)
	defer cancel()

	summary, err := h.services.Stats.Summary(ctx)
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		return c.Send("Stats unavailable: " + err.Error())
	}

	return c.Send(summary)
}

// commandPayload returns everything after the command token, keeping line
// breaks that the platform's own payload parsing drops
func commandPayload(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}
