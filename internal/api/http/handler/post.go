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

// PostService defines post creation and gated reads.
type PostService interface {
	Create(ctx context.Context, viewer model.TokenClaims, draft model.PostDraft) (model.Post, error)
	Get(ctx context.Context, viewer *model.TokenClaims, postID uuid.UUID) (model.Post, error)
	Children(ctx context.Context, viewer *model.TokenClaims, postID uuid.UUID, page model.Page) ([]model.Post, error)
}

type postResponse struct {
	ID        uuid.UUID  `json:"id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Audience  string     `json:"audience"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

func newPostResponse(p model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		ParentID:  p.ParentID,
		Audience:  p.Audience.String(),
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

type postPageResponse struct {
	Items []postResponse `json:"items"`
	Limit int            `json:"limit"`
	Page  int            `json:"page"`
}

// Post handles HTTP endpoints for posts.
type Post struct {
	service        PostService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewPost(service PostService, contextManager model.ContextManager, logger *logger.Logger) *Post {
	return &Post{service: service, contextManager: contextManager, logger: logger}
}

func (h *Post) fail(w http.ResponseWriter, op string, err error) {
	if _, ok := model.KindOf(err); !ok {
		h.logger.Error("Post handler: "+op+" failed", "error", err.Error())
	}
	response.Error(w, err)
}

func (h *Post) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess)
	if !ok {
		response.Error(w, model.ErrUnauthorized)
		return
	}

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), viewer, req.toDraft())
	if err != nil {
		h.fail(w, "create post", err)
		return
	}
	response.JSON(w, http.StatusCreated, newPostResponse(post))
}

// target reads the {post_id} parameter and the optional viewer. A malformed
// id cannot name a post.
func (h *Post) target(r *http.Request) (*model.TokenClaims, uuid.UUID, error) {
	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		return nil, uuid.Nil, model.ErrPostNotFound
	}

	var viewer *model.TokenClaims
	if claims, ok := h.contextManager.GetClaimsFromContext(r.Context(), model.TokenKindAccess); ok {
		viewer = &claims
	}
	return viewer, postID, nil
}

// Get serves anonymous and authenticated readers alike.
func (h *Post) Get(w http.ResponseWriter, r *http.Request) {
	viewer, postID, err := h.target(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	post, err := h.service.Get(r.Context(), viewer, postID)
	if err != nil {
		h.fail(w, "get post", err)
		return
	}
	response.JSON(w, http.StatusOK, newPostResponse(post))
}

func (h *Post) Children(w http.ResponseWriter, r *http.Request) {
	viewer, postID, err := h.target(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	children, err := h.service.Children(r.Context(), viewer, postID, page)
	if err != nil {
		h.fail(w, "list replies", err)
		return
	}

	res := postPageResponse{Items: make([]postResponse, 0, len(children)), Limit: page.Limit, Page: page.Page}
	for _, child := range children {
		res.Items = append(res.Items, newPostResponse(child))
	}
	response.JSON(w, http.StatusOK, res)
}
