package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"blogpulse/internal/engagement"
	"blogpulse/internal/middleware"
)

// Engagement groups the like and share counter handlers.
type Engagement struct {
	service *engagement.Service
}

// NewEngagement creates a new Engagement handler group.
func NewEngagement(service *engagement.Service) *Engagement {
	return &Engagement{service: service}
}

// Like records the authenticated user's like. One like per user per item;
// a repeat attempt is a conflict, a self-like is forbidden.
func (h *Engagement) Like(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	likes, err := h.service.RecordLike(r.Context(), id, middleware.ViewerFromCtx(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, map[string]int64{"likes": likes})
}

// Share records a share. Shares are unrestricted and never deduplicated.
func (h *Engagement) Share(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	shares, err := h.service.RecordShare(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.JSON(w, r, map[string]int64{"shares": shares})
}
