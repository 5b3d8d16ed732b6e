package middleware

import (
	tele "gopkg.in/telebot.v3"
	telemw "gopkg.in/telebot.v3/middleware"
)

// AdminOnly restricts a handler group to the administrative chat.
// Updates from any other chat are dropped without a reply.
func AdminOnly(adminChatID int64) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || chat.ID != adminChatID {
				return nil
			}
			return next(c)
		}
	}
}

// AllowedUsers restricts a handler group to the listed sender ids.
// An empty list leaves the group open to everyone.
func AllowedUsers(ids ...int64) tele.MiddlewareFunc {
	if len(ids) == 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}
	whitelist := telemw.Whitelist(ids...)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		allowed := whitelist(next)
		return func(c tele.Context) error {
			if c.Sender() == nil {
				return nil
			}
			return allowed(c)
		}
	}
}
