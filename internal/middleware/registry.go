package middleware

import (
	"context"
	"fmt"
	"time"

	"engeybot/internal/metrics"
	"engeybot/internal/repository"
	"engeybot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RegisterChat records the chat of every update before it reaches a handler.
// Registry failures are logged and reported; the update is still handled.
func RegisterChat(
	registry repository.ChatRegistry,
	notifier service.Notifier,
	timeout time.Duration,
	logger *zap.Logger,
) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			added, err := registry.Record(ctx, chat.ID)
			cancel()

			switch {
			case err != nil:
				logger.Error("Failed to record chat in middleware",
					zap.Int64("chat_id", chat.ID),
					zap.Error(err),
				)
				metrics.ObserveFailure(metrics.KindRegistry)
				notifier.Notify(fmt.Sprintf("#error registry %d: %v", chat.ID, err))
			case added:
				logger.Info("New chat registered",
					zap.Int64("chat_id", chat.ID),
					zap.String("chat_type", string(chat.Type)),
				)
				metrics.ObserveNewChat()
			}

			return next(c)
		}
	}
}
