// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"blogpulse/internal/engagement"
	"blogpulse/internal/errs"
	"blogpulse/internal/lifecycle"
	"blogpulse/internal/markdown"
	"blogpulse/internal/middleware"
	"blogpulse/internal/models"
	"blogpulse/internal/store"
)

// Content groups the content lifecycle HTTP handlers.
type Content struct {
	lifecycle  *lifecycle.Manager
	engagement *engagement.Service
}

// NewContent creates a new Content handler group.
func NewContent(lc *lifecycle.Manager, eng *engagement.Service) *Content {
	return &Content{lifecycle: lc, engagement: eng}
}

// contentResponse is a content item plus its derived state. Detail
// responses additionally carry the rendered body, counters, and whether
// the viewer has liked it.
type contentResponse struct {
	*models.Content
	State    models.ContentState     `json:"state"`
	BodyHTML string                  `json:"body_html,omitempty"`
	Stats    *models.EngagementStats `json:"stats,omitempty"`
	Liked    *bool                   `json:"liked,omitempty"`
}

type createContentRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Category  string     `json:"category,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

// Create makes a new content item for the authenticated user.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	c, err := h.lifecycle.Create(r.Context(), lifecycle.CreateInput{
		Title:        req.Title,
		Body:         req.Body,
		CategoryName: req.Category,
		PublishAt:    req.PublishAt,
	}, middleware.ViewerFromCtx(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, contentResponse{Content: c, State: c.State(time.Now())})
}

// Get returns one content item with rendered body, counters, and like
// status. Reading counts a view unless the viewer owns the item.
func (h *Content) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	viewer := middleware.ViewerFromCtx(r.Context())

	c, err := h.lifecycle.Get(r.Context(), id, viewer)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	resp := contentResponse{Content: c, State: c.State(time.Now())}

	if html, err := markdown.ToHTML(c.Body); err != nil {
		slog.Warn("markdown render failed", "content_id", c.ID, "error", err)
	} else {
		resp.BodyHTML = html
	}

	if stats, err := h.engagement.Stats(r.Context(), c.ID); err == nil {
		resp.Stats = stats
	}
	if viewer.IsAuthenticated() {
		if liked, err := h.engagement.HasLiked(r.Context(), c.ID, viewer.ID); err == nil {
			resp.Liked = &liked
		}
	}

	render.JSON(w, r, resp)
}

type updateContentRequest struct {
	Title          *string    `json:"title,omitempty"`
	Body           *string    `json:"body,omitempty"`
	Category       *string    `json:"category,omitempty"`
	ClearCategory  bool       `json:"clear_category,omitempty"`
	PublishAt      *time.Time `json:"publish_at,omitempty"`
	ClearPublishAt bool       `json:"clear_publish_at,omitempty"`
}

// Update modifies fields of an existing item. Omitted fields are left
// untouched; clearing the category or publish date is an explicit flag.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var req updateContentRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}

	c, err := h.lifecycle.Update(r.Context(), id, lifecycle.UpdatePatch{
		Title:         req.Title,
		Body:          req.Body,
		CategoryName:  req.Category,
		ClearCategory: req.ClearCategory,
		PublishAt:     req.PublishAt,
		ClearPublish:  req.ClearPublishAt,
	}, middleware.ViewerFromCtx(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, contentResponse{Content: c, State: c.State(time.Now())})
}

// Delete soft-deletes an item. Repeating the call is a no-op success.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if err := h.lifecycle.SoftDelete(r.Context(), id, middleware.ViewerFromCtx(r.Context())); err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// List returns the page of content visible to the viewer.
func (h *Content) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := lifecycle.ListRequest{
		Search:       q.Get("search"),
		CategoryName: q.Get("category"),
		Sort:         store.Sort(q.Get("sort")),
		Mine:         q.Get("mine") == "true",
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondErr(w, r, errs.Newf(errs.KindValidation, "page %q is not a number", v))
			return
		}
		req.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondErr(w, r, errs.Newf(errs.KindValidation, "page_size %q is not a number", v))
			return
		}
		req.PageSize = n
	}

	res, err := h.lifecycle.List(r.Context(), req, middleware.ViewerFromCtx(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	now := time.Now()
	items := make([]contentResponse, 0, len(res.Items))
	for i := range res.Items {
		c := &res.Items[i]
		items = append(items, contentResponse{Content: c, State: c.State(now)})
	}

	render.JSON(w, r, map[string]any{
		"items":       items,
		"total":       res.Total,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}
