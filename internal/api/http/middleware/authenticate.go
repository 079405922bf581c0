package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/chirp-server/internal/api/http/response"
	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

const maxBodyBytes = 1 << 20

// TokenVerifier checks a token's signature for one kind and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string, kind model.TokenKind) (model.TokenClaims, error)
}

// StatusGate decides whether a verify status may use verified-only features.
type StatusGate interface {
	RequireVerified(status model.VerifyStatus) error
}

// Authenticate decodes tokens from a request and stores their claims on the
// request context.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// Handle requires a valid access token in the Authorization header.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			response.Error(w, model.NewError(model.KindUnauthorized, "access token is required"))
			return
		}

		claims, err := m.verifier.Verify(tokenString, model.TokenKindAccess)
		if err != nil {
			m.logger.Debug("Authenticate middleware: access token rejected", "error", err.Error())
			response.Error(w, err)
			return
		}

		ctx := m.contextManager.SetClaimsToContext(r.Context(), model.TokenKindAccess, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Soft decodes the access token when one is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func (m *Authenticate) Soft(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.Handle(next).ServeHTTP(w, r)
	})
}

// BodyToken verifies the token found under field in a JSON body as kind. The
// body is restored so the handler can decode it again.
func (m *Authenticate) BodyToken(kind model.TokenKind, field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				response.Error(w, model.WrapError(model.KindInvalidArgument, "failed to read request body", err))
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			var fields map[string]json.RawMessage
			if err := json.Unmarshal(body, &fields); err != nil {
				response.Error(w, model.WrapError(model.KindInvalidArgument, "request body must be a JSON object", err))
				return
			}

			var tokenString string
			if raw, ok := fields[field]; ok {
				_ = json.Unmarshal(raw, &tokenString)
			}
			if tokenString == "" {
				response.Error(w, model.NewError(model.KindUnauthorized, field+" is required"))
				return
			}

			claims, err := m.verifier.Verify(tokenString, kind)
			if err != nil {
				m.logger.Debug("Authenticate middleware: body token rejected",
					"kind", kind.String(),
					"error", err.Error())
				response.Error(w, err)
				return
			}

			ctx := m.contextManager.SetClaimsToContext(r.Context(), kind, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerified rejects requests whose access token snapshot is not
// verified. It must run after Handle.
func (m *Authenticate) RequireVerified(gate StatusGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := m.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
			if !ok {
				response.Error(w, model.ErrUnauthorized)
				return
			}
			if err := gate.RequireVerified(claims.VerifyStatus); err != nil {
				response.Error(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SoftRequireVerified applies the verified gate to authenticated requests
// only. Anonymous requests pass. It must run after Soft.
func (m *Authenticate) SoftRequireVerified(gate StatusGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := m.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
			if ok {
				if err := gate.RequireVerified(claims.VerifyStatus); err != nil {
					response.Error(w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
