package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/api/http/response"
	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/service"
)

// AuthService defines registration, login and session operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) (service.AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (model.Account, error)
	Login(ctx context.Context, accountID uuid.UUID, status model.VerifyStatus) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, oldRefresh string, claims model.TokenClaims) (model.TokenPair, error)
	OAuthLogin(ctx context.Context, code string) (service.AuthResult, error)
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	tokenPairResponse
	NewUser bool `json:"new_user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func pairResponse(pair model.TokenPair) tokenPairResponse {
	return tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Auth) fail(w http.ResponseWriter, op string, err error) {
	if _, ok := model.KindOf(err); ok {
		h.logger.Debug("Auth handler: "+op+" rejected", "error", err.Error())
	} else {
		h.logger.Error("Auth handler: "+op+" failed", "error", err.Error())
	}
	response.Error(w, err)
}

// Register creates an account and opens its first session.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	dob, _ := parseDate(req.DateOfBirth)
	res, err := h.authService.Register(r.Context(), service.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		DateOfBirth: dob,
	})
	if err != nil {
		h.fail(w, "register", err)
		return
	}

	response.JSON(w, http.StatusCreated, authResponse{
		AccountID:         res.AccountID,
		tokenPairResponse: pairResponse(res.TokenPair),
	})
}

// Login exchanges credentials for a token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	account, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "authenticate", err)
		return
	}

	pair, err := h.authService.Login(r.Context(), account.ID, account.VerifyStatus)
	if err != nil {
		h.fail(w, "login", err)
		return
	}

	response.JSON(w, http.StatusOK, authResponse{
		AccountID:         account.ID,
		tokenPairResponse: pairResponse(pair),
	})
}

// Logout ends the session of the refresh token in the body. The bearer and
// the refresh token must belong to the same account.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	access, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}
	refresh, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindRefresh)
	if !ok || refresh.AccountID != access.AccountID {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	var req refreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.fail(w, "logout", err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "logout succeeded"})
}

// RefreshToken rotates the refresh token in the body.
func (h *Auth) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindRefresh)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	var req refreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	pair, err := h.authService.RefreshToken(r.Context(), req.RefreshToken, claims)
	if err != nil {
		h.fail(w, "refresh token", err)
		return
	}

	response.JSON(w, http.StatusOK, pairResponse(pair))
}

// OAuthGoogle completes a Google sign-in with the authorization code.
func (h *Auth) OAuthGoogle(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.Error(w, model.NewError(model.KindInvalidArgument, "code is required"))
		return
	}

	res, err := h.authService.OAuthLogin(r.Context(), code)
	if err != nil {
		h.fail(w, "oauth login", err)
		return
	}

	response.JSON(w, http.StatusOK, authResponse{
		AccountID:         res.AccountID,
		tokenPairResponse: pairResponse(res.TokenPair),
		NewUser:           res.NewUser,
	})
}
