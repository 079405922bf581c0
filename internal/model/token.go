package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind identifies the purpose a token was signed for.
type TokenKind int

const (
	TokenKindAccess TokenKind = iota
	TokenKindRefresh
	TokenKindForgotPassword
	TokenKindEmailVerify
)

func (k TokenKind) String() string {
	switch k {
	case TokenKindAccess:
		return "access"
	case TokenKindRefresh:
		return "refresh"
	case TokenKindForgotPassword:
		return "forgot_password"
	case TokenKindEmailVerify:
		return "email_verify"
	default:
		return "unknown"
	}
}

// TokenCodec signs and verifies purpose-scoped tokens.
type TokenCodec interface {
	Sign(kind TokenKind, claims TokenClaims, ttl time.Duration) (string, error)
	Verify(token string, kind TokenKind) (TokenClaims, error)
}

// TokenClaims are the claims carried by every token. VerifyStatus is a
// snapshot taken at issuance.
type TokenClaims struct {
	ID           string
	AccountID    uuid.UUID
	Kind         TokenKind
	VerifyStatus VerifyStatus
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// TokenPair is returned by every flow that opens a session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
