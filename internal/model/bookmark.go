package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookmarkStore defines persistence operations for bookmarks.
type BookmarkStore interface {
	// Add stores the bookmark, or returns the existing one unchanged.
	Add(ctx context.Context, accountID, postID uuid.UUID) (Bookmark, error)
	// Remove deletes the bookmark. Removing a missing bookmark is not an error.
	Remove(ctx context.Context, accountID, postID uuid.UUID) error
}

// Bookmark is a post saved by an account.
type Bookmark struct {
	AccountID uuid.UUID
	PostID    uuid.UUID
	CreatedAt time.Time
}
