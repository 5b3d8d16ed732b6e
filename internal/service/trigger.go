package service

import (
	"regexp"
	"strings"

	"engeybot/internal/domain"
)

// TriggerFilter decides which inbound messages the bot answers
type TriggerFilter struct {
	marker           string
	strip            bool
	respondInPrivate bool
	fold             *regexp.Regexp // non-nil in case-insensitive mode
}

// TriggerOptions configures a TriggerFilter
type TriggerOptions struct {
	Marker           string
	CaseInsensitive  bool
	Strip            bool
	RespondInPrivate bool
}

// NewTriggerFilter creates a filter for the given marker
func NewTriggerFilter(opts TriggerOptions) *TriggerFilter {
	f := &TriggerFilter{
		marker:           opts.Marker,
		strip:            opts.Strip,
		respondInPrivate: opts.RespondInPrivate,
	}
	if opts.CaseInsensitive {
		f.fold = regexp.MustCompile("(?i)" + regexp.QuoteMeta(opts.Marker))
	}
	return f
}

// Marker returns the configured trigger marker
func (f *TriggerFilter) Marker() string {
	return f.marker
}

// Strips reports whether Prompt removes the marker and trims the text
func (f *TriggerFilter) Strips() bool {
	return f.strip
}

// Matches reports whether the marker appears anywhere in text
func (f *TriggerFilter) Matches(text string) bool {
	if f.marker == "" {
		return false
	}
	if f.fold != nil {
		return f.fold.MatchString(text)
	}
	return strings.Contains(text, f.marker)
}

// ShouldRespond applies Matches to the message body, letting private chats
// through without the marker when configured to
func (f *TriggerFilter) ShouldRespond(msg domain.ChatMessage) bool {
	if f.respondInPrivate && msg.IsPrivate() {
		return true
	}
	return f.Matches(msg.Text)
}

// Prompt derives the completion prompt from the message body
func (f *TriggerFilter) Prompt(text string) string {
	if !f.strip || f.marker == "" {
		return text
	}
	if f.fold != nil {
		return strings.TrimSpace(f.fold.ReplaceAllLiteralString(text, ""))
	}
	return strings.TrimSpace(strings.ReplaceAll(text, f.marker, ""))
}
