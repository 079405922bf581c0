package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/model"
)

var _ model.RelationshipStore = (*RelationshipRepository)(nil)

type RelationshipRepository struct {
	db *Connection
}

func NewRelationshipRepository(db *Connection) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

func (r *RelationshipRepository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	const query = `
        INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

func (r *RelationshipRepository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	const query = `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	if _, err := r.db.Exec(ctx, query, followerID, followeeID); err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *RelationshipRepository) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var ok bool
	if err := r.db.QueryRow(ctx, query, followerID, followeeID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return ok, nil
}

func (r *RelationshipRepository) AddToCircle(ctx context.Context, ownerID, memberID uuid.UUID) error {
	const query = `
        INSERT INTO circle_members (owner_id, member_id) VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `
	if _, err := r.db.Exec(ctx, query, ownerID, memberID); err != nil {
		return fmt.Errorf("failed to add circle member: %w", err)
	}
	return nil
}

func (r *RelationshipRepository) RemoveFromCircle(ctx context.Context, ownerID, memberID uuid.UUID) error {
	const query = `DELETE FROM circle_members WHERE owner_id = $1 AND member_id = $2`
	if _, err := r.db.Exec(ctx, query, ownerID, memberID); err != nil {
		return fmt.Errorf("failed to remove circle member: %w", err)
	}
	return nil
}

func (r *RelationshipRepository) IsCircleMember(ctx context.Context, ownerID, memberID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM circle_members WHERE owner_id = $1 AND member_id = $2)`
	var ok bool
	if err := r.db.QueryRow(ctx, query, ownerID, memberID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check circle membership: %w", err)
	}
	return ok, nil
}
