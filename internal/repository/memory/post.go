package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

// PostRepository keeps posts keyed by ID.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]model.Post
	last  time.Time
}

// NewPostRepository creates an empty repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[uuid.UUID]model.Post)}
}

var _ model.PostStore = (*PostRepository)(nil)

func (r *PostRepository) Create(_ context.Context, post model.Post) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	// Strictly increasing so listings keep insertion order.
	now := time.Now()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now
	post.CreatedAt = now
	r.posts[post.ID] = post

	return post, nil
}

func (r *PostRepository) GetByID(_ context.Context, id uuid.UUID) (model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	return post, nil
}

func (r *PostRepository) ListChildren(_ context.Context, parentID uuid.UUID, limit, offset int) ([]model.Post, error) {
	r.mu.RLock()
	var children []model.Post
	for _, post := range r.posts {
		if post.ParentID != nil && *post.ParentID == parentID {
			children = append(children, post)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(children, func(a, b model.Post) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	if offset >= len(children) {
		return []model.Post{}, nil
	}
	children = children[offset:]
	if limit < len(children) {
		children = children[:limit]
	}
	return children, nil
}
