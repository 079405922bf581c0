package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
)

// RegisterParams holds the data needed to create an account.
type RegisterParams struct {
	Email       string
	Password    string
	Name        string
	DateOfBirth time.Time
}

// AuthResult is returned by flows that open a session.
type AuthResult struct {
	AccountID uuid.UUID
	model.TokenPair
	NewUser bool
}

type Auth struct {
	accounts model.AccountStore
	tokens   *TokenService
	hasher   model.PasswordHasher
	mail     model.MailDispatcher
	provider model.IdentityProvider
	states   *AccountStateMachine
	metrics  metrics.Recorder
	logger   *logger.Logger
}

func NewAuth(
	accounts model.AccountStore,
	tokens *TokenService,
	hasher model.PasswordHasher,
	mail model.MailDispatcher,
	provider model.IdentityProvider,
	recorder metrics.Recorder,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		mail:     mail,
		provider: provider,
		states:   NewAccountStateMachine(),
		metrics:  recorder,
		logger:   logger,
	}
}

// Register creates an unverified account and opens its first session.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (res AuthResult, err error) {
	defer func() { a.metrics.RecordAuthEvent("register", err) }()

	a.logger.Debug("Auth service: starting registration", "email", params.Email)

	_, err = a.accounts.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: email already exists", "email", params.Email)
		return AuthResult{}, model.ErrDuplicateEmail
	}
	if !errors.Is(err, model.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := a.createAccount(ctx, model.Account{
		Email:        params.Email,
		PasswordHash: hash,
		Name:         params.Name,
		DateOfBirth:  params.DateOfBirth,
	})
	if err != nil {
		return AuthResult{}, err
	}

	pair, err := a.tokens.Issue(ctx, account.ID, model.VerifyStatusUnverified)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: account registered", "account_id", account.ID)

	return AuthResult{AccountID: account.ID, TokenPair: pair, NewUser: true}, nil
}

// createAccount stores a new unverified account with a fresh email-verify
// token and dispatches the verification email.
func (a *Auth) createAccount(ctx context.Context, account model.Account) (model.Account, error) {
	account.ID = uuid.New()
	account.VerifyStatus = model.VerifyStatusUnverified

	verifyToken, err := a.tokens.Sign(model.TokenKindEmailVerify, account.ID, model.VerifyStatusUnverified)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to sign email verify token: %w", err)
	}
	account.EmailVerifyToken = verifyToken

	created, err := a.accounts.Create(ctx, account)
	if errors.Is(err, model.ErrConflict) {
		return model.Account{}, model.ErrDuplicateEmail
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create account",
			"email", account.Email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	a.mail.Dispatch(model.Mail{Kind: model.MailKindEmailVerify, To: created.Email, Token: verifyToken})

	return created, nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Auth) Authenticate(ctx context.Context, email, password string) (model.Account, error) {
	account, err := a.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.metrics.RecordAuthEvent("authenticate", model.ErrInvalidCredentials)
		return model.Account{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	if err := a.hasher.Compare(account.PasswordHash, password); err != nil {
		a.logger.Info("Auth service: password mismatch", "account_id", account.ID)
		a.metrics.RecordAuthEvent("authenticate", model.ErrInvalidCredentials)
		return model.Account{}, model.ErrInvalidCredentials
	}

	return account, nil
}

// Login opens a new session for an authenticated account.
func (a *Auth) Login(ctx context.Context, accountID uuid.UUID, status model.VerifyStatus) (pair model.TokenPair, err error) {
	defer func() { a.metrics.RecordAuthEvent("login", err) }()

	if err := a.states.RequireNotBanned(status); err != nil {
		a.logger.Info("Auth service: banned account tried to log in", "account_id", accountID)
		return model.TokenPair{}, err
	}

	pair, err = a.tokens.Issue(ctx, accountID, status)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: login succeeded", "account_id", accountID)
	return pair, nil
}

// Logout deletes the session of refreshToken.
func (a *Auth) Logout(ctx context.Context, refreshToken string) (err error) {
	defer func() { a.metrics.RecordAuthEvent("logout", err) }()

	return a.tokens.Revoke(ctx, refreshToken)
}

// RefreshToken rotates a session. claims must come from a verified refresh
// token. The new pair carries the live verify status.
func (a *Auth) RefreshToken(ctx context.Context, oldRefresh string, claims model.TokenClaims) (pair model.TokenPair, err error) {
	defer func() { a.metrics.RecordAuthEvent("refresh", err) }()

	account, err := a.accounts.GetByID(ctx, claims.AccountID)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get account: %w", err)
	}

	if err := a.states.RequireNotBanned(account.VerifyStatus); err != nil {
		return model.TokenPair{}, err
	}

	return a.tokens.Rotate(ctx, oldRefresh, account.ID, account.VerifyStatus)
}

// OAuthLogin signs an account in through the identity provider, creating it
// on first use.
func (a *Auth) OAuthLogin(ctx context.Context, code string) (res AuthResult, err error) {
	defer func() { a.metrics.RecordAuthEvent("oauth", err) }()

	identity, err := a.provider.Exchange(ctx, code)
	if err != nil {
		a.logger.Warn("Auth service: provider exchange failed", "error", err.Error())
		return AuthResult{}, model.WrapError(model.KindExchangeFailed, model.ErrExchangeFailed.Message, err)
	}
	if !identity.EmailVerified {
		return AuthResult{}, model.ErrProviderEmailUnverified
	}

	existing, err := a.accounts.GetByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		if err := a.states.RequireNotBanned(existing.VerifyStatus); err != nil {
			return AuthResult{}, err
		}
		pair, err := a.tokens.Issue(ctx, existing.ID, existing.VerifyStatus)
		if err != nil {
			return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
		}
		return AuthResult{AccountID: existing.ID, TokenPair: pair}, nil
	case !errors.Is(err, model.ErrNotFound):
		return AuthResult{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	hash, err := a.hasher.RandomHash()
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := a.createAccount(ctx, model.Account{
		Email:        identity.Email,
		PasswordHash: hash,
		Name:         identity.Name,
	})
	if err != nil {
		return AuthResult{}, err
	}

	pair, err := a.tokens.Issue(ctx, account.ID, model.VerifyStatusUnverified)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: account created through provider", "account_id", account.ID)

	return AuthResult{AccountID: account.ID, TokenPair: pair, NewUser: true}, nil
}
