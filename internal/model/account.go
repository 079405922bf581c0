package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VerifyStatus is the trust level of an account.
type VerifyStatus int

const (
	// VerifyStatusUnverified is the initial status of every account.
	VerifyStatusUnverified VerifyStatus = iota
	// VerifyStatusVerified is set once the email address is confirmed.
	VerifyStatusVerified
	// VerifyStatusBanned is terminal.
	VerifyStatusBanned
)

func (s VerifyStatus) String() string {
	switch s {
	case VerifyStatusUnverified:
		return "unverified"
	case VerifyStatusVerified:
		return "verified"
	case VerifyStatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	SetEmailVerifyToken(ctx context.Context, id uuid.UUID, token string) error
	SetForgotPasswordToken(ctx context.Context, id uuid.UUID, token string) error
	// MarkVerified moves an unverified account holding token to verified and
	// clears the token. Returns ErrNotFound when no row matched.
	MarkVerified(ctx context.Context, id uuid.UUID, token string) error
	// ResetPassword replaces the hash of an account holding token and clears
	// the token. Returns ErrNotFound when no row matched.
	ResetPassword(ctx context.Context, id uuid.UUID, token string, passwordHash string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status VerifyStatus) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (Account, error)
}

// Account represents a stored account with authentication material.
type Account struct {
	ID                uuid.UUID
	Email             string
	PasswordHash      string
	Name              string
	DateOfBirth       time.Time
	Bio               string
	VerifyStatus      VerifyStatus
	EmailVerifyToken  string
	ForgotVerifyToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProfileUpdate carries optional profile fields; nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Bio         *string
	DateOfBirth *time.Time
}

// Profile is the public view of an account.
type Profile struct {
	ID           uuid.UUID
	Email        string
	Name         string
	DateOfBirth  time.Time
	Bio          string
	VerifyStatus VerifyStatus
	CreatedAt    time.Time
}

// Profile strips secret fields from the account.
func (a Account) Profile() Profile {
	return Profile{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		DateOfBirth:  a.DateOfBirth,
		Bio:          a.Bio,
		VerifyStatus: a.VerifyStatus,
		CreatedAt:    a.CreatedAt,
	}
}
