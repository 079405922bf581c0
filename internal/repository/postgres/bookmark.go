package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

var _ model.BookmarkStore = (*BookmarkRepository)(nil)

type BookmarkRepository struct {
	db *Connection
}

func NewBookmarkRepository(db *Connection) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Add(ctx context.Context, accountID, postID uuid.UUID) (model.Bookmark, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const query = `
        INSERT INTO bookmarks (account_id, post_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (account_id, post_id) DO UPDATE SET account_id = EXCLUDED.account_id
        RETURNING created_at
    `

	b := model.Bookmark{AccountID: accountID, PostID: postID}
	if err := r.db.QueryRow(ctx, query, accountID, postID).Scan(&b.CreatedAt); err != nil {
		return model.Bookmark{}, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepository) Remove(ctx context.Context, accountID, postID uuid.UUID) error {
	const query = `DELETE FROM bookmarks WHERE account_id = $1 AND post_id = $2`

	if _, err := r.db.Exec(ctx, query, accountID, postID); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}
