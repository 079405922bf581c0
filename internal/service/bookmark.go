package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

// Bookmark saves posts for verified accounts.
type Bookmark struct {
	bookmarks model.BookmarkStore
	posts     *Post
	states    *AccountStateMachine
	logger    *logger.Logger
}

func NewBookmark(bookmarks model.BookmarkStore, posts *Post, logger *logger.Logger) *Bookmark {
	return &Bookmark{
		bookmarks: bookmarks,
		posts:     posts,
		states:    NewAccountStateMachine(),
		logger:    logger,
	}
}

// Create bookmarks a post the viewer can read. Repeating it returns the
// existing bookmark.
func (s *Bookmark) Create(ctx context.Context, viewer model.TokenClaims, postID uuid.UUID) (model.Bookmark, error) {
	if err := s.states.RequireVerified(viewer.VerifyStatus); err != nil {
		return model.Bookmark{}, err
	}
	if _, err := s.posts.Get(ctx, &viewer, postID); err != nil {
		return model.Bookmark{}, err
	}

	b, err := s.bookmarks.Add(ctx, viewer.AccountID, postID)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("failed to add bookmark: %w", err)
	}

	s.logger.Info("Bookmark service: post bookmarked", "account_id", viewer.AccountID, "post_id", postID)
	return b, nil
}

func (s *Bookmark) Delete(ctx context.Context, viewer model.TokenClaims, postID uuid.UUID) error {
	if err := s.states.RequireVerified(viewer.VerifyStatus); err != nil {
		return err
	}
	if err := s.bookmarks.Remove(ctx, viewer.AccountID, postID); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	s.logger.Info("Bookmark service: bookmark removed", "account_id", viewer.AccountID, "post_id", postID)
	return nil
}
