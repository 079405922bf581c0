package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/token"
)

// TokenTTLs are the lifetimes of each token kind.
type TokenTTLs struct {
	Access         time.Duration
	Refresh        time.Duration
	EmailVerify    time.Duration
	ForgotPassword time.Duration
}

func (t TokenTTLs) of(kind model.TokenKind) time.Duration {
	var ttl time.Duration
	switch kind {
	case model.TokenKindAccess:
		ttl = t.Access
	case model.TokenKindRefresh:
		ttl = t.Refresh
	case model.TokenKindEmailVerify:
		ttl = t.EmailVerify
	case model.TokenKindForgotPassword:
		ttl = t.ForgotPassword
	}
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}
	return ttl
}

// TokenService issues, rotates and revokes token pairs. It composes the
// TokenCodec and the SessionStore. Sessions are stored under the SHA-256 of
// the refresh token.
type TokenService struct {
	codec    model.TokenCodec
	sessions model.SessionStore
	ttls     TokenTTLs
	logger   *logger.Logger
	now      func() time.Time
}

func NewTokenService(codec model.TokenCodec, sessions model.SessionStore, ttls TokenTTLs, logger *logger.Logger) *TokenService {
	return &TokenService{codec: codec, sessions: sessions, ttls: ttls, logger: logger, now: time.Now}
}

// Verify checks a token of the given kind.
func (s *TokenService) Verify(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	return s.codec.Verify(tokenString, kind)
}

// Sign creates a single token of kind for the account.
func (s *TokenService) Sign(kind model.TokenKind, accountID uuid.UUID, status model.VerifyStatus) (string, error) {
	tok, err := s.codec.Sign(kind, model.TokenClaims{
		AccountID:    accountID,
		VerifyStatus: status,
		IssuedAt:     s.now(),
	}, s.ttls.of(kind))
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", kind, err)
	}
	return tok, nil
}

// Issue signs a fresh pair and persists a new session for it.
func (s *TokenService) Issue(ctx context.Context, accountID uuid.UUID, status model.VerifyStatus) (model.TokenPair, error) {
	pair, session, err := s.signPair(ctx, accountID, status)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return model.TokenPair{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Debug("Token service: session issued", "account_id", accountID)
	return pair, nil
}

// Rotate replaces the session of oldRefresh with a new pair in one step.
func (s *TokenService) Rotate(ctx context.Context, oldRefresh string, accountID uuid.UUID, status model.VerifyStatus) (model.TokenPair, error) {
	pair, session, err := s.signPair(ctx, accountID, status)
	if err != nil {
		return model.TokenPair{}, err
	}

	err = s.sessions.Rotate(ctx, hashRefresh(oldRefresh), session)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: refresh token reused or missing", "account_id", accountID)
		return model.TokenPair{}, model.ErrUsedOrMissingRefreshToken
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("rotate session: %w", err)
	}

	s.logger.Debug("Token service: session rotated", "account_id", accountID)
	return pair, nil
}

// Revoke deletes the session of a refresh token.
func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	if err := s.sessions.DeleteByToken(ctx, hashRefresh(refresh)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session of the account.
func (s *TokenService) RevokeAll(ctx context.Context, accountID uuid.UUID) error {
	if err := s.sessions.DeleteByAccount(ctx, accountID); err != nil {
		return fmt.Errorf("delete account sessions: %w", err)
	}
	return nil
}

func (s *TokenService) signPair(ctx context.Context, accountID uuid.UUID, status model.VerifyStatus) (model.TokenPair, model.Session, error) {
	now := s.now()
	claims := model.TokenClaims{AccountID: accountID, VerifyStatus: status, IssuedAt: now}
	refreshTTL := s.ttls.of(model.TokenKindRefresh)

	var pair model.TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		tok, err := s.codec.Sign(model.TokenKindAccess, claims, s.ttls.of(model.TokenKindAccess))
		if err != nil {
			return fmt.Errorf("issue access: %w", err)
		}
		pair.AccessToken = tok
		return nil
	})
	g.Go(func() error {
		tok, err := s.codec.Sign(model.TokenKindRefresh, claims, refreshTTL)
		if err != nil {
			return fmt.Errorf("issue refresh: %w", err)
		}
		pair.RefreshToken = tok
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.TokenPair{}, model.Session{}, err
	}

	session := model.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Token:     hashRefresh(pair.RefreshToken),
		IssuedAt:  now,
		ExpiresAt: now.Add(refreshTTL),
	}
	return pair, session, nil
}

func hashRefresh(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
