package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

// Post creates posts and serves them through the visibility check.
type Post struct {
	posts      model.PostStore
	visibility *Visibility
	states     *AccountStateMachine
	logger     *logger.Logger
}

func NewPost(posts model.PostStore, visibility *Visibility, logger *logger.Logger) *Post {
	return &Post{
		posts:      posts,
		visibility: visibility,
		states:     NewAccountStateMachine(),
		logger:     logger,
	}
}

// Create stores a post authored by viewer. A reply requires that viewer can
// read the parent.
func (s *Post) Create(ctx context.Context, viewer model.TokenClaims, draft model.PostDraft) (model.Post, error) {
	if err := s.states.RequireVerified(viewer.VerifyStatus); err != nil {
		return model.Post{}, err
	}

	if draft.ParentID != nil {
		if _, err := s.Get(ctx, &viewer, *draft.ParentID); err != nil {
			return model.Post{}, err
		}
	}

	post, err := s.posts.Create(ctx, model.Post{
		ID:       uuid.New(),
		AuthorID: viewer.AccountID,
		ParentID: draft.ParentID,
		Audience: draft.Audience,
		Content:  draft.Content,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post service: post created", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

// Get returns a post if viewer may read it. viewer is nil for anonymous
// requests.
func (s *Post) Get(ctx context.Context, viewer *model.TokenClaims, postID uuid.UUID) (model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}

	if err := s.visibility.CanView(ctx, viewer, post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

// Children lists replies to a post the viewer may read. Replies the viewer
// may not read are left out of the page.
func (s *Post) Children(ctx context.Context, viewer *model.TokenClaims, postID uuid.UUID, page model.Page) ([]model.Post, error) {
	if _, err := s.Get(ctx, viewer, postID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	children, err := s.posts.ListChildren(ctx, postID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	visible := make([]model.Post, 0, len(children))
	for _, child := range children {
		err := s.visibility.CanView(ctx, viewer, child)
		switch {
		case err == nil:
			visible = append(visible, child)
		case errors.Is(err, model.ErrForbidden),
			errors.Is(err, model.ErrUnauthorized),
			errors.Is(err, model.ErrPostNotFound):
			// hidden from this viewer
		default:
			return nil, err
		}
	}
	return visible, nil
}
