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

// BookmarkService defines bookmark operations.
type BookmarkService interface {
	Create(ctx context.Context, viewer model.TokenClaims, postID uuid.UUID) (model.Bookmark, error)
	Delete(ctx context.Context, viewer model.TokenClaims, postID uuid.UUID) error
}

type bookmarkResponse struct {
	PostID    uuid.UUID `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark handles HTTP endpoints for bookmarks.
type Bookmark struct {
	service        BookmarkService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewBookmark(service BookmarkService, contextManager model.ContextManager, logger *logger.Logger) *Bookmark {
	return &Bookmark{service: service, contextManager: contextManager, logger: logger}
}

func (h *Bookmark) fail(w http.ResponseWriter, op string, err error) {
	if _, ok := model.KindOf(err); !ok {
		h.logger.Error("Bookmark handler: "+op+" failed", "error", err.Error())
	}
	response.Error(w, err)
}

func (h *Bookmark) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	var req postIDRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	postID, _ := uuid.Parse(req.PostID)

	b, err := h.service.Create(r.Context(), viewer, postID)
	if err != nil {
		h.fail(w, "create bookmark", err)
		return
	}
	response.JSON(w, http.StatusCreated, bookmarkResponse{PostID: b.PostID, CreatedAt: b.CreatedAt})
}

func (h *Bookmark) Delete(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		response.Error(w, model.WrapError(model.KindInvalidArgument, "post_id must be a UUID", err))
		return
	}

	if err := h.service.Delete(r.Context(), viewer, postID); err != nil {
		h.fail(w, "delete bookmark", err)
		return
	}
	response.JSON(w, http.StatusOK, messageResponse{Message: "bookmark removed"})
}
