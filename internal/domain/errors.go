package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the chat registry cannot be read or written
	ErrStoreUnavailable = errors.New("registry store unavailable")
	// ErrUpstream covers completion and moderation failures
	ErrUpstream = errors.New("completion upstream error")
	// ErrSynthesis covers speech synthesis failures
	ErrSynthesis = errors.New("speech synthesis error")
	// ErrPlatform covers messaging platform receive/send failures
	ErrPlatform = errors.New("messaging platform error")
)
