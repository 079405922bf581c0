package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/chirp-server/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is used when Sign is called with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// Claims represents JWT claims with token kind, user ID and verify status.
type Claims struct {
	jwt.RegisteredClaims
	UserID       uuid.UUID          `json:"user_id"`
	TokenType    model.TokenKind    `json:"token_type"`
	VerifyStatus model.VerifyStatus `json:"verify"`
}

// Secrets holds one signing secret per token kind.
type Secrets struct {
	Access         string
	Refresh        string
	EmailVerify    string
	ForgotPassword string
}

// JWT implements model.TokenCodec backed by symmetric HMAC.
type JWT struct {
	secrets map[model.TokenKind][]byte
	parser  *jwt.Parser
}

// NewJWT creates a new JWT codec with the provided per-kind secrets.
func NewJWT(secrets Secrets) *JWT {
	return &JWT{
		secrets: map[model.TokenKind][]byte{
			model.TokenKindAccess:         []byte(secrets.Access),
			model.TokenKindRefresh:        []byte(secrets.Refresh),
			model.TokenKindEmailVerify:    []byte(secrets.EmailVerify),
			model.TokenKindForgotPassword: []byte(secrets.ForgotPassword),
		},
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

var _ model.TokenCodec = (*JWT)(nil)

// Sign creates a token of the given kind. A missing jti or issue time is
// filled in; ttl <= 0 falls back to DefaultTTL.
func (j *JWT) Sign(kind model.TokenKind, claims model.TokenClaims, ttl time.Duration) (string, error) {
	secret, ok := j.secrets[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %d", kind)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	jti := claims.ID
	if jti == "" {
		jti = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:       claims.AccountID,
		TokenType:    kind,
		VerifyStatus: claims.VerifyStatus,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Verify validates tokenString with the secret of kind and returns its claims.
func (j *JWT) Verify(tokenString string, kind model.TokenKind) (model.TokenClaims, error) {
	secret, ok := j.secrets[kind]
	if !ok {
		return model.TokenClaims{}, fmt.Errorf("unknown token kind %d", kind)
	}

	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return model.TokenClaims{}, classify(err)
	}
	if claims.TokenType != kind {
		return model.TokenClaims{}, model.WrapError(model.KindTokenKindMismatch,
			fmt.Sprintf("expected %s token, got %s", kind, claims.TokenType), nil)
	}

	out := model.TokenClaims{
		ID:           claims.ID,
		AccountID:    claims.UserID,
		Kind:         claims.TokenType,
		VerifyStatus: claims.VerifyStatus,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return model.WrapError(model.KindTokenMalformed, "token malformed", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.WrapError(model.KindTokenExpired, "token expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return model.WrapError(model.KindUnauthorized, "token signature is invalid", err)
	default:
		return model.WrapError(model.KindUnauthorized, "token is invalid", err)
	}
}
