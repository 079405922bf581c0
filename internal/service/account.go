package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
)

// Account serves profile reads and edits, and bans.
type Account struct {
	accounts model.AccountStore
	tokens   *TokenService
	states   *AccountStateMachine
	metrics  metrics.Recorder
	logger   *logger.Logger
}

func NewAccount(accounts model.AccountStore, tokens *TokenService, recorder metrics.Recorder, logger *logger.Logger) *Account {
	return &Account{
		accounts: accounts,
		tokens:   tokens,
		states:   NewAccountStateMachine(),
		metrics:  recorder,
		logger:   logger,
	}
}

func (s *Account) GetMe(ctx context.Context, accountID uuid.UUID) (model.Profile, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account.Profile(), nil
}

// UpdateMe edits the viewer's profile. Only verified accounts may do this.
func (s *Account) UpdateMe(ctx context.Context, viewer model.TokenClaims, update model.ProfileUpdate) (model.Profile, error) {
	if err := s.states.RequireVerified(viewer.VerifyStatus); err != nil {
		return model.Profile{}, err
	}

	account, err := s.accounts.UpdateProfile(ctx, viewer.AccountID, update)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Account service: profile updated", "account_id", viewer.AccountID)
	return account.Profile(), nil
}

// Ban moves the account to Banned and ends all its sessions.
func (s *Account) Ban(ctx context.Context, accountID uuid.UUID) (err error) {
	defer func() { s.metrics.RecordAuthEvent("ban", err) }()

	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if err := s.states.Transition(account.VerifyStatus, model.VerifyStatusBanned); err != nil {
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, accountID, model.VerifyStatusBanned); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if err := s.tokens.RevokeAll(ctx, accountID); err != nil {
		return err
	}

	s.logger.Warn("Account service: account banned", "account_id", accountID)
	return nil
}
