package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/store"
	"blogpulse/internal/visibility"
)

const maxCommentLen = 10_000

// contentFinder resolves content rows for visibility checks.
type contentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
}

// Comments groups the comment HTTP handlers. Comment visibility follows
// the content they hang off: comments on invisible content are invisible.
type Comments struct {
	comments *store.CommentStore
	content  contentFinder
	mode     store.CommentDeleteMode
}

// NewComments creates a new Comments handler group using the configured
// deletion policy.
func NewComments(comments *store.CommentStore, content contentFinder, mode store.CommentDeleteMode) *Comments {
	return &Comments{comments: comments, content: content, mode: mode}
}

// ListForContent returns the non-deleted comments of a visible content
// item, oldest first.
func (h *Comments) ListForContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.visibleContent(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	list, err := h.comments.ListForContent(r.Context(), c.ID)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{"items": list, "total": len(list)})
}

type createCommentRequest struct {
	Body string `json:"body"`
}

// Create adds a comment to a visible content item.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromCtx(r.Context())
	if !viewer.IsAuthenticated() {
		respondErr(w, r, errs.New(errs.KindPermission, "authentication required"))
		return
	}

	c, err := h.visibleContent(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var req createCommentRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		respondErr(w, r, errs.New(errs.KindValidation, "comment body is required"))
		return
	}
	if len(req.Body) > maxCommentLen {
		respondErr(w, r, errs.Newf(errs.KindValidation, "comment body exceeds %d characters", maxCommentLen))
		return
	}

	comment, err := h.comments.Create(r.Context(), c.ID, viewer.ID, req.Body)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, comment)
}

// Get returns a single comment by id.
func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	comment, err := h.find(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	render.JSON(w, r, comment)
}

// Delete removes a comment under the configured policy. Only the comment's
// author or an admin may delete it.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	comment, err := h.find(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	viewer := middleware.ViewerFromCtx(r.Context())
	if viewer.ID != comment.AuthorID && !viewer.IsAdmin() {
		respondErr(w, r, errs.New(errs.KindPermission, "not allowed to delete this comment"))
		return
	}

	if err := h.comments.Delete(r.Context(), comment.ID, h.mode); err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// find loads the comment and verifies its content is visible to the
// viewer. An invisible parent hides the comment entirely.
func (h *Comments) find(r *http.Request) (*models.Comment, error) {
	id, err := urlID(r)
	if err != nil {
		return nil, err
	}

	comment, err := h.comments.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errs.New(errs.KindNotFound, "comment not found")
	}

	c, err := h.content.FindByID(r.Context(), comment.ContentID)
	if err != nil {
		return nil, err
	}
	if c == nil || !visibility.CanView(c, middleware.ViewerFromCtx(r.Context()), time.Now()) {
		return nil, errs.New(errs.KindNotFound, "comment not found")
	}

	return comment, nil
}

// visibleContent resolves the {id} route parameter into a content item the
// viewer may see.
func (h *Comments) visibleContent(r *http.Request) (*models.Content, error) {
	id, err := urlID(r)
	if err != nil {
		return nil, err
	}

	c, err := h.content.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil || !visibility.CanView(c, middleware.ViewerFromCtx(r.Context()), time.Now()) {
		return nil, errs.New(errs.KindNotFound, "content not found")
	}
	return c, nil
}
