package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
)

// VerifyEmailResult reports the outcome of an email confirmation. Pair is nil
// when the account was already verified.
type VerifyEmailResult struct {
	AccountID       uuid.UUID
	Pair            *model.TokenPair
	AlreadyVerified bool
}

// Verification drives email verification and password reset.
type Verification struct {
	accounts model.AccountStore
	tokens   *TokenService
	hasher   model.PasswordHasher
	mail     model.MailDispatcher
	states   *AccountStateMachine
	metrics  metrics.Recorder
	logger   *logger.Logger
}

func NewVerification(
	accounts model.AccountStore,
	tokens *TokenService,
	hasher model.PasswordHasher,
	mail model.MailDispatcher,
	recorder metrics.Recorder,
	logger *logger.Logger,
) *Verification {
	return &Verification{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		mail:     mail,
		states:   NewAccountStateMachine(),
		metrics:  recorder,
		logger:   logger,
	}
}

func (v *Verification) getAccount(ctx context.Context, id uuid.UUID) (model.Account, error) {
	account, err := v.accounts.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// RequestEmailVerification re-issues the email-verify token. A verified
// account is a no-op.
func (v *Verification) RequestEmailVerification(ctx context.Context, accountID uuid.UUID) (err error) {
	defer func() { v.metrics.RecordAuthEvent("resend_verify_email", err) }()

	account, err := v.getAccount(ctx, accountID)
	if err != nil {
		return err
	}

	switch account.VerifyStatus {
	case model.VerifyStatusBanned:
		return model.ErrBanned
	case model.VerifyStatusVerified:
		v.logger.Debug("Verification service: account already verified", "account_id", accountID)
		return nil
	}

	tok, err := v.tokens.Sign(model.TokenKindEmailVerify, account.ID, account.VerifyStatus)
	if err != nil {
		return err
	}
	if err := v.accounts.SetEmailVerifyToken(ctx, account.ID, tok); err != nil {
		return fmt.Errorf("failed to store email verify token: %w", err)
	}

	v.mail.Dispatch(model.Mail{Kind: model.MailKindEmailVerify, To: account.Email, Token: tok})

	v.logger.Info("Verification service: email verification re-sent", "account_id", accountID)
	return nil
}

// ConfirmEmailVerification consumes an email-verify token and opens a
// session for the now verified account.
func (v *Verification) ConfirmEmailVerification(ctx context.Context, tokenString string) (res VerifyEmailResult, err error) {
	defer func() { v.metrics.RecordAuthEvent("verify_email", err) }()

	claims, err := v.tokens.Verify(tokenString, model.TokenKindEmailVerify)
	if err != nil {
		return VerifyEmailResult{}, err
	}

	account, err := v.getAccount(ctx, claims.AccountID)
	if err != nil {
		return VerifyEmailResult{}, err
	}

	switch account.VerifyStatus {
	case model.VerifyStatusVerified:
		return VerifyEmailResult{AccountID: account.ID, AlreadyVerified: true}, nil
	case model.VerifyStatusBanned:
		return VerifyEmailResult{}, model.ErrBanned
	}

	if !sameToken(account.EmailVerifyToken, tokenString) {
		return VerifyEmailResult{}, model.ErrTokenInvalid
	}
	if err := v.states.Transition(account.VerifyStatus, model.VerifyStatusVerified); err != nil {
		return VerifyEmailResult{}, err
	}

	err = v.accounts.MarkVerified(ctx, account.ID, tokenString)
	if errors.Is(err, model.ErrNotFound) {
		// A concurrent confirmation of the same link may have won the update.
		current, getErr := v.getAccount(ctx, account.ID)
		if getErr == nil && current.VerifyStatus == model.VerifyStatusVerified {
			return VerifyEmailResult{AccountID: account.ID, AlreadyVerified: true}, nil
		}
		return VerifyEmailResult{}, model.ErrTokenInvalid
	}
	if err != nil {
		return VerifyEmailResult{}, fmt.Errorf("failed to mark account verified: %w", err)
	}

	pair, err := v.tokens.Issue(ctx, account.ID, model.VerifyStatusVerified)
	if err != nil {
		return VerifyEmailResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	v.logger.Info("Verification service: email verified", "account_id", account.ID)
	return VerifyEmailResult{AccountID: account.ID, Pair: &pair}, nil
}

// RequestPasswordReset stores a forgot-password token and mails it. A
// second request overwrites the first token.
func (v *Verification) RequestPasswordReset(ctx context.Context, email string) (err error) {
	defer func() { v.metrics.RecordAuthEvent("forgot_password", err) }()

	account, err := v.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get account by email: %w", err)
	}

	tok, err := v.tokens.Sign(model.TokenKindForgotPassword, account.ID, account.VerifyStatus)
	if err != nil {
		return err
	}
	if err := v.accounts.SetForgotPasswordToken(ctx, account.ID, tok); err != nil {
		return fmt.Errorf("failed to store forgot password token: %w", err)
	}

	v.mail.Dispatch(model.Mail{Kind: model.MailKindForgotPassword, To: account.Email, Token: tok})

	v.logger.Info("Verification service: password reset requested", "account_id", account.ID)
	return nil
}

// ConfirmPasswordResetToken checks that tokenString is the currently stored
// forgot-password token.
func (v *Verification) ConfirmPasswordResetToken(ctx context.Context, tokenString string) (model.TokenClaims, error) {
	claims, err := v.tokens.Verify(tokenString, model.TokenKindForgotPassword)
	if err != nil {
		return model.TokenClaims{}, err
	}

	account, err := v.getAccount(ctx, claims.AccountID)
	if err != nil {
		return model.TokenClaims{}, err
	}

	if !sameToken(account.ForgotVerifyToken, tokenString) {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}

	return claims, nil
}

// ResetPassword replaces the password and ends every session of the account.
func (v *Verification) ResetPassword(ctx context.Context, tokenString, newPassword string) (err error) {
	defer func() { v.metrics.RecordAuthEvent("reset_password", err) }()

	claims, err := v.ConfirmPasswordResetToken(ctx, tokenString)
	if err != nil {
		return err
	}

	hash, err := v.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = v.accounts.ResetPassword(ctx, claims.AccountID, tokenString, hash)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := v.tokens.RevokeAll(ctx, claims.AccountID); err != nil {
		return err
	}

	v.logger.Info("Verification service: password reset", "account_id", claims.AccountID)
	return nil
}

func sameToken(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
