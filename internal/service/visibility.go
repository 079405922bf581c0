package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/chirp-server/internal/model"
)

// Visibility decides whether a viewer may read a post.
type Visibility struct {
	accounts      model.AccountStore
	relationships model.RelationshipStore
}

func NewVisibility(accounts model.AccountStore, relationships model.RelationshipStore) *Visibility {
	return &Visibility{accounts: accounts, relationships: relationships}
}

// CanView returns nil when viewer may read post. viewer is nil for anonymous
// requests. A missing or banned author is reported as PostNotFound.
func (v *Visibility) CanView(ctx context.Context, viewer *model.TokenClaims, post model.Post) error {
	if post.Audience == model.AudienceEveryone {
		return nil
	}
	if viewer == nil {
		return model.ErrUnauthorized
	}

	author, err := v.accounts.GetByID(ctx, post.AuthorID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get post author: %w", err)
	}
	if author.VerifyStatus == model.VerifyStatusBanned {
		return model.ErrPostNotFound
	}

	if viewer.AccountID == author.ID {
		return nil
	}

	member, err := v.relationships.IsCircleMember(ctx, author.ID, viewer.AccountID)
	if err != nil {
		return fmt.Errorf("failed to check circle membership: %w", err)
	}
	if !member {
		return model.ErrForbidden
	}
	return nil
}
