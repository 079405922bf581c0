package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	// GetByToken returns ErrNotFound for missing or expired rows.
	GetByToken(ctx context.Context, token string) (Session, error)
	// DeleteByToken succeeds even if no row matches.
	DeleteByToken(ctx context.Context, token string) error
	// Rotate deletes the row for oldToken and inserts next as one unit.
	// Returns ErrNotFound if oldToken has no live row.
	Rotate(ctx context.Context, oldToken string, next Session) error
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Session is one live refresh credential.
type Session struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
