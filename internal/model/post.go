package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audience controls who may read a post.
type Audience int

const (
	AudienceEveryone Audience = iota
	AudienceCircle
)

func (a Audience) String() string {
	switch a {
	case AudienceEveryone:
		return "everyone"
	case AudienceCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseAudience is the inverse of Audience.String.
func ParseAudience(s string) (Audience, bool) {
	switch s {
	case "everyone":
		return AudienceEveryone, true
	case "circle":
		return AudienceCircle, true
	default:
		return 0, false
	}
}

// PostStore defines persistence operations for posts.
type PostStore interface {
	Create(ctx context.Context, post Post) (Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	// ListChildren returns direct replies to parentID, oldest first.
	ListChildren(ctx context.Context, parentID uuid.UUID, limit, offset int) ([]Post, error)
}

// Post is a piece of authored content. ParentID is nil for top-level posts.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	ParentID  *uuid.UUID
	Audience  Audience
	Content   string
	CreatedAt time.Time
}

// PostDraft is what an author submits.
type PostDraft struct {
	Audience Audience
	Content  string
	ParentID *uuid.UUID
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page selects a window of a listing. Pages are numbered from 1.
type Page struct {
	Limit int
	Page  int
}

// Normalize fills in defaults and clamps the limit.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
