package context

import (
	"context"

	"github.com/dtroode/chirp-server/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

// claimsKey keys decoded claims by token kind so an access token and a body
// refresh token can live on the same request.
type claimsKey struct {
	kind model.TokenKind
}

// Manager represents an HTTP request context manager for token claims.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a copy of ctx carrying claims for the given kind.
func (m *Manager) SetClaimsToContext(ctx context.Context, kind model.TokenKind, claims model.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{kind: kind}, claims)
}

// GetClaimsFromContext retrieves claims of the given kind, if decoded earlier
// in the middleware chain.
func (m *Manager) GetClaimsFromContext(ctx context.Context, kind model.TokenKind) (model.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{kind: kind}).(model.TokenClaims)
	return claims, ok
}
