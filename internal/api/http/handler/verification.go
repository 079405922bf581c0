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

// VerificationService defines email verification and password reset.
type VerificationService interface {
	RequestEmailVerification(ctx context.Context, accountID uuid.UUID) error
	ConfirmEmailVerification(ctx context.Context, tokenString string) (service.VerifyEmailResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordResetToken(ctx context.Context, tokenString string) (model.TokenClaims, error)
	ResetPassword(ctx context.Context, tokenString, newPassword string) error
}

// Verification handles HTTP endpoints for email and password verification.
type Verification struct {
	verification   VerificationService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewVerification(verification VerificationService, contextManager model.ContextManager, logger *logger.Logger) *Verification {
	return &Verification{
		verification:   verification,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Verification) fail(w http.ResponseWriter, op string, err error) {
	if _, ok := model.KindOf(err); !ok {
		h.logger.Error("Verification handler: "+op+" failed", "error", err.Error())
	}
	response.Error(w, err)
}

func (h *Verification) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req emailVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	res, err := h.verification.ConfirmEmailVerification(r.Context(), req.EmailVerifyToken)
	if err != nil {
		h.fail(w, "verify email", err)
		return
	}

	if res.AlreadyVerified || res.Pair == nil {
		response.JSON(w, http.StatusOK, messageResponse{Message: "email already verified"})
		return
	}
	response.JSON(w, http.StatusOK, authResponse{
		AccountID:         res.AccountID,
		tokenPairResponse: pairResponse(*res.Pair),
	})
}

func (h *Verification) ResendVerifyEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	if err := h.verification.RequestEmailVerification(r.Context(), claims.AccountID); err != nil {
		h.fail(w, "resend verify email", err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "verification email sent"})
}

func (h *Verification) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	if err := h.verification.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.fail(w, "forgot password", err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "password reset email sent"})
}

func (h *Verification) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	if _, err := h.verification.ConfirmPasswordResetToken(r.Context(), req.ForgotPasswordToken); err != nil {
		h.fail(w, "verify forgot password", err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "forgot password token is valid"})
}

func (h *Verification) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	if err := h.verification.ResetPassword(r.Context(), req.ForgotPasswordToken, req.Password); err != nil {
		h.fail(w, "reset password", err)
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "password has been reset"})
}
