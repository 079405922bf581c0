package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/chirp-server/internal/api/http/response"
	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/model"
)

// AccountService defines profile operations.
type AccountService interface {
	GetMe(ctx context.Context, accountID uuid.UUID) (model.Profile, error)
	UpdateMe(ctx context.Context, viewer model.TokenClaims, update model.ProfileUpdate) (model.Profile, error)
}

// RelationshipService defines follow and circle operations.
type RelationshipService interface {
	Follow(ctx context.Context, viewer model.TokenClaims, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, viewer model.TokenClaims, followeeID uuid.UUID) error
	AddToCircle(ctx context.Context, viewer model.TokenClaims, memberID uuid.UUID) error
	RemoveFromCircle(ctx context.Context, viewer model.TokenClaims, memberID uuid.UUID) error
}

type profileResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	Bio          string    `json:"bio"`
	VerifyStatus string    `json:"verify_status"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProfileResponse(p model.Profile) profileResponse {
	res := profileResponse{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		Bio:          p.Bio,
		VerifyStatus: p.VerifyStatus.String(),
		CreatedAt:    p.CreatedAt,
	}
	if !p.DateOfBirth.IsZero() {
		res.DateOfBirth = p.DateOfBirth.Format("2006-01-02")
	}
	return res
}

// Account handles HTTP endpoints for the caller's profile and relationships.
type Account struct {
	accounts       AccountService
	relationships  RelationshipService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAccount(
	accounts AccountService,
	relationships RelationshipService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Account {
	return &Account{
		accounts:       accounts,
		relationships:  relationships,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Account) viewer(w http.ResponseWriter, r *http.Request) (model.TokenClaims, bool) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
	}
	return claims, ok
}

func (h *Account) fail(w http.ResponseWriter, op string, err error) {
	if _, ok := model.KindOf(err); !ok {
		h.logger.Error("Account handler: "+op+" failed", "error", err.Error())
	}
	response.Error(w, err)
}

func (h *Account) GetMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	profile, err := h.accounts.GetMe(r.Context(), viewer.AccountID)
	if err != nil {
		h.fail(w, "get me", err)
		return
	}
	response.JSON(w, http.StatusOK, newProfileResponse(profile))
}

func (h *Account) UpdateMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	profile, err := h.accounts.UpdateMe(r.Context(), viewer, req.toUpdate())
	if err != nil {
		h.fail(w, "update me", err)
		return
	}
	response.JSON(w, http.StatusOK, newProfileResponse(profile))
}

// relationFromBody runs op with the user_id from a JSON body.
func (h *Account) relationFromBody(op string, fn func(context.Context, model.TokenClaims, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := h.viewer(w, r)
		if !ok {
			return
		}

		var req userIDRequest
		if err := decodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		target, _ := uuid.Parse(req.UserID)

		if err := fn(r.Context(), viewer, target); err != nil {
			h.fail(w, op, err)
			return
		}
		response.JSON(w, http.StatusOK, messageResponse{Message: op + " succeeded"})
	}
}

// relationFromPath runs op with the {user_id} URL parameter.
func (h *Account) relationFromPath(op string, fn func(context.Context, model.TokenClaims, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := h.viewer(w, r)
		if !ok {
			return
		}

		target, err := uuid.Parse(chi.URLParam(r, "user_id"))
		if err != nil {
			response.Error(w, model.WrapError(model.KindInvalidArgument, "user_id must be a UUID", err))
			return
		}

		if err := fn(r.Context(), viewer, target); err != nil {
			h.fail(w, op, err)
			return
		}
		response.JSON(w, http.StatusOK, messageResponse{Message: op + " succeeded"})
	}
}

func (h *Account) Follow(w http.ResponseWriter, r *http.Request) {
	h.relationFromBody("follow", h.relationships.Follow)(w, r)
}

func (h *Account) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.relationFromPath("unfollow", h.relationships.Unfollow)(w, r)
}

func (h *Account) AddToCircle(w http.ResponseWriter, r *http.Request) {
	h.relationFromBody("add to circle", h.relationships.AddToCircle)(w, r)
}

func (h *Account) RemoveFromCircle(w http.ResponseWriter, r *http.Request) {
	h.relationFromPath("remove from circle", h.relationships.RemoveFromCircle)(w, r)
}
