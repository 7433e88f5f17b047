// Package lifecycle owns the content state machine: create, update,
// soft-delete, and the read paths that enforce visibility. Publish state is
// never stored: it is derived from publish_at, deleted_at, and the clock,
// so create and update only need to persist the timestamps.
package lifecycle

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
	"blogpulse/internal/store"
	"blogpulse/internal/visibility"
)

// Validation limits for content fields.
const (
	maxTitleLen = 300
	maxBodyLen  = 100_000

	defaultPageSize = 10
)

// ContentRepo is the content slice of the repository this manager needs.
// *store.ContentStore satisfies it.
type ContentRepo interface {
	Create(ctx context.Context, c *models.Content) (*models.Content, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
	Update(ctx context.Context, c *models.Content) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, q store.ListQuery) ([]models.Content, int, error)
}

// CategoryRepo resolves category names. *store.CategoryStore satisfies it.
type CategoryRepo interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
}

// ViewRecorder records a view as a side effect of the detail read path.
// The engagement service satisfies it and owns the owner-view exclusion.
type ViewRecorder interface {
	RecordView(ctx context.Context, contentID uuid.UUID, viewer visibility.Viewer) error
}

// Manager is the content lifecycle service.
type Manager struct {
	content    ContentRepo
	categories CategoryRepo
	views      ViewRecorder
	now        func() time.Time
}

// New creates a Manager. The views recorder may be nil in contexts that
// never serve detail reads.
func New(content ContentRepo, categories CategoryRepo, views ViewRecorder) *Manager {
	return &Manager{
		content:    content,
		categories: categories,
		views:      views,
		now:        time.Now,
	}
}

// CreateInput carries the fields for a new content item.
type CreateInput struct {
	Title        string
	Body         string
	CategoryName string
	PublishAt    *time.Time
}

// Create validates input, resolves the category by name, and persists the
// content together with its stats row. If publish_at is already in the
// past the item is published immediately; there is no separate publish
// call.
func (m *Manager) Create(ctx context.Context, in CreateInput, actor visibility.Viewer) (*models.Content, error) {
	if !actor.IsAuthenticated() {
		return nil, errs.New(errs.KindPermission, "authentication required")
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateBody(in.Body); err != nil {
		return nil, err
	}

	c := &models.Content{
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		AuthorID:  actor.ID,
		PublishAt: in.PublishAt,
	}

	if in.CategoryName != "" {
		cat, err := m.categories.FindByName(ctx, in.CategoryName)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, errs.Newf(errs.KindNotFound, "category %q does not exist", in.CategoryName)
		}
		c.CategoryID = &cat.ID
	}

	return m.content.Create(ctx, c)
}

// UpdatePatch carries partial changes. Nil fields are left untouched.
// ClearCategory removes the category reference.
type UpdatePatch struct {
	Title         *string
	Body          *string
	CategoryName  *string
	ClearCategory bool
	PublishAt     *time.Time
	ClearPublish  bool
}

// Update applies a patch. Only the owner or an admin may update; the
// soft-deleted state is terminal and rejects every transition. Publish
// state is re-derived from the patched publish_at on the next read.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch, actor visibility.Viewer) (*models.Content, error) {
	c, err := m.content.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.New(errs.KindNotFound, "content not found")
	}
	if !actor.Owns(c) && !actor.IsAdmin() {
		return nil, errs.New(errs.KindPermission, "only the owner or an admin may update content")
	}
	if c.IsDeleted() {
		return nil, errs.New(errs.KindState, "content is soft-deleted and cannot be modified")
	}

	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		c.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		if err := validateBody(*patch.Body); err != nil {
			return nil, err
		}
		c.Body = *patch.Body
	}
	if patch.ClearCategory {
		c.CategoryID = nil
	} else if patch.CategoryName != nil {
		cat, err := m.categories.FindByName(ctx, *patch.CategoryName)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, errs.Newf(errs.KindNotFound, "category %q does not exist", *patch.CategoryName)
		}
		c.CategoryID = &cat.ID
	}
	if patch.ClearPublish {
		c.PublishAt = nil
	} else if patch.PublishAt != nil {
		c.PublishAt = patch.PublishAt
	}

	if err := m.content.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SoftDelete marks the content deleted. Deleting an already-deleted item
// is a no-op success. There is no restore: soft-delete is terminal.
func (m *Manager) SoftDelete(ctx context.Context, id uuid.UUID, actor visibility.Viewer) error {
	c, err := m.content.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return errs.New(errs.KindNotFound, "content not found")
	}
	if !actor.Owns(c) && !actor.IsAdmin() {
		return errs.New(errs.KindPermission, "only the owner or an admin may delete content")
	}
	if c.IsDeleted() {
		return nil
	}
	return m.content.SoftDelete(ctx, id, m.now())
}

// Get returns one content item if the viewer may see it, recording a view
// as a side effect. Invisible content reads as not-found so existence does
// not leak. A failed view record never fails the read.
func (m *Manager) Get(ctx context.Context, id uuid.UUID, viewer visibility.Viewer) (*models.Content, error) {
	c, err := m.content.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !visibility.CanView(c, viewer, m.now()) {
		return nil, errs.New(errs.KindNotFound, "content not found")
	}

	if m.views != nil {
		if err := m.views.RecordView(ctx, c.ID, viewer); err != nil {
			slog.Warn("view not recorded", "content_id", c.ID, "error", err)
		}
	}
	return c, nil
}

// ListRequest describes a content listing from the caller's point of view.
type ListRequest struct {
	Search       string
	CategoryName string
	Sort         store.Sort
	Page         int
	PageSize     int
	Mine         bool
}

// ListResult is one page of visible content.
type ListResult struct {
	Items      []models.Content
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// List returns the page of content visible to the viewer, applying the
// visibility scope before search, filter, sort, and pagination. Mine mode
// requires an authenticated viewer.
func (m *Manager) List(ctx context.Context, req ListRequest, viewer visibility.Viewer) (*ListResult, error) {
	if req.Mine && !viewer.IsAuthenticated() {
		return nil, errs.New(errs.KindPermission, "authentication required to list own content")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = defaultPageSize
	}
	switch req.Sort {
	case store.SortNewest, store.SortOldest, store.SortTitleAsc, store.SortTitleDesc:
	case "":
		req.Sort = store.SortNewest
	default:
		return nil, errs.Newf(errs.KindValidation, "unknown sort order %q", req.Sort)
	}

	items, total, err := m.content.List(ctx, store.ListQuery{
		Scope:        visibility.ListScope(viewer, req.Mine),
		ViewerID:     viewer.ID,
		Now:          m.now(),
		Search:       req.Search,
		CategoryName: req.CategoryName,
		Sort:         req.Sort,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := total / req.PageSize
	if total%req.PageSize != 0 {
		totalPages++
	}
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errs.New(errs.KindValidation, "title is required")
	}
	if len([]rune(title)) > maxTitleLen {
		return errs.Newf(errs.KindValidation, "title is too long (max %d characters)", maxTitleLen)
	}
	return nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return errs.New(errs.KindValidation, "body is required")
	}
	if len([]rune(body)) > maxBodyLen {
		return errs.Newf(errs.KindValidation, "body is too long (max %d characters)", maxBodyLen)
	}
	return nil
}
