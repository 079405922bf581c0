package model

import (
	"context"
)

// ContextManager stores decoded token claims on a request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, kind TokenKind, claims TokenClaims) context.Context
	GetClaimsFromContext(ctx context.Context, kind TokenKind) (TokenClaims, bool)
}
