package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

// Relationship manages follows and circle membership for verified accounts.
type Relationship struct {
	accounts      model.AccountStore
	relationships model.RelationshipStore
	states        *AccountStateMachine
	logger        *logger.Logger
}

func NewRelationship(accounts model.AccountStore, relationships model.RelationshipStore, logger *logger.Logger) *Relationship {
	return &Relationship{
		accounts:      accounts,
		relationships: relationships,
		states:        NewAccountStateMachine(),
		logger:        logger,
	}
}

// checkTarget gates the viewer and makes sure the target account exists.
func (r *Relationship) checkTarget(ctx context.Context, viewer model.TokenClaims, targetID uuid.UUID) error {
	if err := r.states.RequireVerified(viewer.VerifyStatus); err != nil {
		return err
	}
	if viewer.AccountID == targetID {
		return model.WrapError(model.KindInvalidArgument, "cannot target your own account", nil)
	}

	_, err := r.accounts.GetByID(ctx, targetID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	return nil
}

// Follow is idempotent.
func (r *Relationship) Follow(ctx context.Context, viewer model.TokenClaims, followeeID uuid.UUID) error {
	if err := r.checkTarget(ctx, viewer, followeeID); err != nil {
		return err
	}
	if err := r.relationships.Follow(ctx, viewer.AccountID, followeeID); err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	r.logger.Info("Relationship service: followed", "follower_id", viewer.AccountID, "followee_id", followeeID)
	return nil
}

// Unfollow of a missing edge is a no-op.
func (r *Relationship) Unfollow(ctx context.Context, viewer model.TokenClaims, followeeID uuid.UUID) error {
	if err := r.checkTarget(ctx, viewer, followeeID); err != nil {
		return err
	}
	if err := r.relationships.Unfollow(ctx, viewer.AccountID, followeeID); err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	r.logger.Info("Relationship service: unfollowed", "follower_id", viewer.AccountID, "followee_id", followeeID)
	return nil
}

func (r *Relationship) AddToCircle(ctx context.Context, viewer model.TokenClaims, memberID uuid.UUID) error {
	if err := r.checkTarget(ctx, viewer, memberID); err != nil {
		return err
	}
	if err := r.relationships.AddToCircle(ctx, viewer.AccountID, memberID); err != nil {
		return fmt.Errorf("failed to add to circle: %w", err)
	}

	r.logger.Info("Relationship service: circle member added", "owner_id", viewer.AccountID, "member_id", memberID)
	return nil
}

func (r *Relationship) RemoveFromCircle(ctx context.Context, viewer model.TokenClaims, memberID uuid.UUID) error {
	if err := r.checkTarget(ctx, viewer, memberID); err != nil {
		return err
	}
	if err := r.relationships.RemoveFromCircle(ctx, viewer.AccountID, memberID); err != nil {
		return fmt.Errorf("failed to remove from circle: %w", err)
	}

	r.logger.Info("Relationship service: circle member removed", "owner_id", viewer.AccountID, "member_id", memberID)
	return nil
}
