package model

import (
	"context"
)

// ExternalIdentity is what an identity provider reports about a user.
type ExternalIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityProvider exchanges an authorization code for an identity.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
}
