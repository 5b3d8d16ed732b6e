package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"engeybot/internal/domain"
)

// Registry implements repository.ChatRegistry on the known_chats table
type Registry struct {
	db *sql.DB
}

// NewRegistry creates a new postgres chat registry
func NewRegistry(db *sql.DB) *Registry {
	return &Registry{db: db}
}

// IsKnown checks if the chat was recorded before
func (r *Registry) IsKnown(ctx context.Context, chatID int64) (bool, error) {
	var known bool
	query := `SELECT EXISTS(SELECT 1 FROM known_chats WHERE chat_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, chatID).Scan(&known); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return known, nil
}

// Record inserts the chat unless it already exists
func (r *Registry) Record(ctx context.Context, chatID int64) (bool, error) {
	query := `
		INSERT INTO known_chats (chat_id)
		VALUES ($1)
		ON CONFLICT (chat_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, chatID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return affected > 0, nil
}

// ListChatIDs returns every known chat in insertion order
func (r *Registry) ListChatIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT chat_id FROM known_chats ORDER BY created_at, chat_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return ids, nil
}
