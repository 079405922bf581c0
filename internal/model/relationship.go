package model

import (
	"context"

	"github.com/google/uuid"
)

// RelationshipStore persists follow edges and circle membership.
type RelationshipStore interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	AddToCircle(ctx context.Context, ownerID, memberID uuid.UUID) error
	RemoveFromCircle(ctx context.Context, ownerID, memberID uuid.UUID) error
	IsCircleMember(ctx context.Context, ownerID, memberID uuid.UUID) (bool, error)
}
