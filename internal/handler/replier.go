package handler

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"engeybot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// messageLimit is the platform's maximum text message length in characters
const messageLimit = 4096

// contextReplier answers the message carried by a telebot context
type contextReplier struct {
	c tele.Context
}

func newContextReplier(c tele.Context) *contextReplier {
	return &contextReplier{c: c}
}

func (r *contextReplier) Typing() error {
	return r.c.Notify(tele.Typing)
}

// Reply answers the inbound message, splitting text over the length limit
func (r *contextReplier) Reply(text string) error {
	for _, part := range splitMessage(text, messageLimit) {
		if err := r.c.Reply(part); err != nil {
			return err
		}
	}
	return nil
}

func (r *contextReplier) ReplyAudio(audio domain.Audio) error {
	return r.c.Reply(&tele.Audio{
		File:      tele.FromReader(bytes.NewReader(audio.Data)),
		Title:     audio.Title,
		Performer: audio.Performer,
		Caption:   audio.Caption,
		FileName:  audio.FileName,
		MIME:      "audio/mpeg",
	})
}

// splitMessage cuts text into chunks of at most limit runes, preferring to
// break after a newline in the second half of a chunk
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		if nl := strings.LastIndex(string(runes[:limit]), "\n"); nl >= 0 {
			if at := utf8.RuneCountInString(string(runes[:limit])[:nl]) + 1; at > limit/2 {
				cut = at
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
