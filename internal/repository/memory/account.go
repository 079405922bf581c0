// Package memory provides concurrency-safe in-process stores used for local
// runs and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dtroode/chirp-server/internal/model"
	"github.com/google/uuid"
)

// AccountRepository keeps accounts in a map guarded by a RWMutex.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]model.Account
	byEmail map[string]uuid.UUID
}

// NewAccountRepository creates an empty repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[uuid.UUID]model.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

var _ model.AccountStore = (*AccountRepository)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *AccountRepository) Create(_ context.Context, account model.Account) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(account.Email)
	if _, ok := r.byEmail[email]; ok {
		return model.Account{}, model.ErrConflict
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.byID[account.ID] = account
	r.byEmail[email] = account.ID

	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return r.byID[id], nil
}

// update applies fn to the account under the write lock. fn returning false
// reports that the row did not match.
func (r *AccountRepository) update(id uuid.UUID, fn func(*model.Account) bool) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok || !fn(&account) {
		return model.Account{}, model.ErrNotFound
	}
	account.UpdatedAt = time.Now()
	r.byID[id] = account

	return account, nil
}

func (r *AccountRepository) SetEmailVerifyToken(_ context.Context, id uuid.UUID, token string) error {
	_, err := r.update(id, func(a *model.Account) bool {
		a.EmailVerifyToken = token
		return true
	})
	return err
}

func (r *AccountRepository) SetForgotPasswordToken(_ context.Context, id uuid.UUID, token string) error {
	_, err := r.update(id, func(a *model.Account) bool {
		a.ForgotVerifyToken = token
		return true
	})
	return err
}

func (r *AccountRepository) MarkVerified(_ context.Context, id uuid.UUID, token string) error {
	_, err := r.update(id, func(a *model.Account) bool {
		if a.VerifyStatus != model.VerifyStatusUnverified || token == "" || a.EmailVerifyToken != token {
			return false
		}
		a.VerifyStatus = model.VerifyStatusVerified
		a.EmailVerifyToken = ""
		return true
	})
	return err
}

func (r *AccountRepository) ResetPassword(_ context.Context, id uuid.UUID, token string, passwordHash string) error {
	_, err := r.update(id, func(a *model.Account) bool {
		if token == "" || a.ForgotVerifyToken != token {
			return false
		}
		a.PasswordHash = passwordHash
		a.ForgotVerifyToken = ""
		return true
	})
	return err
}

func (r *AccountRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.VerifyStatus) error {
	_, err := r.update(id, func(a *model.Account) bool {
		a.VerifyStatus = status
		return true
	})
	return err
}

func (r *AccountRepository) UpdateProfile(_ context.Context, id uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	return r.update(id, func(a *model.Account) bool {
		if update.Name != nil {
			a.Name = *update.Name
		}
		if update.Bio != nil {
			a.Bio = *update.Bio
		}
		if update.DateOfBirth != nil {
			a.DateOfBirth = *update.DateOfBirth
		}
		return true
	})
}
