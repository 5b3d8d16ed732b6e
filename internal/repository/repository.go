package repository

import "context"

// ChatRegistry is the deduplicated set of every chat the bot has seen.
// Records are never updated or deleted.
type ChatRegistry interface {
	IsKnown(ctx context.Context, chatID int64) (bool, error)
	// Record adds chatID when missing and reports whether it was new
	Record(ctx context.Context, chatID int64) (bool, error)
	ListChatIDs(ctx context.Context) ([]int64, error)
}
