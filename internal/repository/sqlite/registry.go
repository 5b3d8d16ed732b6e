package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"engeybot/internal/domain"

	_ "modernc.org/sqlite"
)

// Registry implements repository.ChatRegistry on an embedded sqlite database
type Registry struct {
	db *sql.DB
}

// NewRegistry opens the database at dsn and creates the schema when missing
func NewRegistry(dsn string) (*Registry, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, dsn, err)
	}
	// sqlite allows a single writer; one connection avoids SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", domain.ErrStoreUnavailable, err)
	}
	return &Registry{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS known_chats (
    chat_id    INTEGER NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	return err
}

// Close releases the database handle
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) IsKnown(ctx context.Context, chatID int64) (bool, error) {
	var known bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM known_chats WHERE chat_id = ?)`, chatID).Scan(&known)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return known, nil
}

func (r *Registry) Record(ctx context.Context, chatID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO known_chats(chat_id) VALUES(?) ON CONFLICT(chat_id) DO NOTHING`, chatID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return affected > 0, nil
}

func (r *Registry) ListChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT chat_id FROM known_chats ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 128)
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
