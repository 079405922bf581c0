package memory

import (
	"context"
	"sync"

	"github.com/dtroode/chirp-server/internal/model"
	"github.com/google/uuid"
)

type edge struct {
	from uuid.UUID
	to   uuid.UUID
}

// RelationshipRepository keeps follow edges and circle membership as sets.
type RelationshipRepository struct {
	mu      sync.RWMutex
	follows map[edge]struct{}
	circles map[edge]struct{}
}

// NewRelationshipRepository creates an empty repository.
func NewRelationshipRepository() *RelationshipRepository {
	return &RelationshipRepository{
		follows: make(map[edge]struct{}),
		circles: make(map[edge]struct{}),
	}
}

var _ model.RelationshipStore = (*RelationshipRepository)(nil)

func (r *RelationshipRepository) Follow(_ context.Context, followerID, followeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.follows[edge{followerID, followeeID}] = struct{}{}
	return nil
}

func (r *RelationshipRepository) Unfollow(_ context.Context, followerID, followeeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.follows, edge{followerID, followeeID})
	return nil
}

func (r *RelationshipRepository) IsFollowing(_ context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.follows[edge{followerID, followeeID}]
	return ok, nil
}

func (r *RelationshipRepository) AddToCircle(_ context.Context, ownerID, memberID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.circles[edge{ownerID, memberID}] = struct{}{}
	return nil
}

func (r *RelationshipRepository) RemoveFromCircle(_ context.Context, ownerID, memberID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.circles, edge{ownerID, memberID})
	return nil
}

func (r *RelationshipRepository) IsCircleMember(_ context.Context, ownerID, memberID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.circles[edge{ownerID, memberID}]
	return ok, nil
}
