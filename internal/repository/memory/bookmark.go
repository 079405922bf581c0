package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

type bookmarkKey struct {
	account uuid.UUID
	post    uuid.UUID
}

// BookmarkRepository keeps bookmarks keyed by account and post.
type BookmarkRepository struct {
	mu        sync.Mutex
	bookmarks map[bookmarkKey]model.Bookmark
}

// NewBookmarkRepository creates an empty repository.
func NewBookmarkRepository() *BookmarkRepository {
	return &BookmarkRepository{bookmarks: make(map[bookmarkKey]model.Bookmark)}
}

var _ model.BookmarkStore = (*BookmarkRepository)(nil)

func (r *BookmarkRepository) Add(_ context.Context, accountID, postID uuid.UUID) (model.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bookmarkKey{account: accountID, post: postID}
	if b, ok := r.bookmarks[key]; ok {
		return b, nil
	}
	b := model.Bookmark{AccountID: accountID, PostID: postID, CreatedAt: time.Now()}
	r.bookmarks[key] = b
	return b, nil
}

func (r *BookmarkRepository) Remove(_ context.Context, accountID, postID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bookmarks, bookmarkKey{account: accountID, post: postID})
	return nil
}

// Len returns the number of stored bookmarks.
func (r *BookmarkRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.bookmarks)
}
