package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"blogpulse/internal/errs"
	"blogpulse/internal/store"
)

// Categories groups the category CRUD handlers. Reads are public;
// mutations are admin-only, enforced by the router.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories with their non-deleted content counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": list, "total": len(list)})
}

// Get returns one category by id.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if c == nil {
		respondErr(w, r, errs.New(errs.KindNotFound, "category not found"))
		return
	}
	render.JSON(w, r, c)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Create adds a new category. Names are unique.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondErr(w, r, errs.New(errs.KindValidation, "category name is required"))
		return
	}

	c, err := h.categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, c)
}

// Update renames a category or changes its description.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	var req categoryRequest
	if err := decode(r, &req); err != nil {
		respondErr(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondErr(w, r, errs.New(errs.KindValidation, "category name is required"))
		return
	}

	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if c == nil {
		respondErr(w, r, errs.New(errs.KindNotFound, "category not found"))
		return
	}

	c.Name = req.Name
	c.Description = req.Description
	if err := h.categories.Update(r.Context(), c); err != nil {
		respondErr(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

// Delete removes a category. Content in the category keeps existing with
// its category reference cleared.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"status": "deleted"})
}
