// Package visibility defines, in one place, which content is visible to
// whom. Both the detail path and list queries derive their rules from here
// so the two can never diverge.
package visibility

import (
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/models"
)

// Viewer is the resolved identity and role of a caller. The zero value is
// not valid; use Anonymous for unauthenticated callers.
type Viewer struct {
	ID   uuid.UUID
	Role models.Role
}

// Anonymous returns the viewer used for unauthenticated requests.
func Anonymous() Viewer {
	return Viewer{Role: models.RoleAnonymous}
}

// IsAuthenticated reports whether the viewer carries a resolved identity.
func (v Viewer) IsAuthenticated() bool {
	return v.Role != models.RoleAnonymous && v.Role != ""
}

// IsAdmin reports whether the viewer holds the admin role.
func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}

// Owns reports whether the viewer is the author of the content.
func (v Viewer) Owns(c *models.Content) bool {
	return v.IsAuthenticated() && v.ID == c.AuthorID
}

// CanView is the single visibility predicate:
//   - soft-deleted content is visible to no one through normal read paths;
//   - published content is visible to everyone;
//   - drafts and scheduled content are visible only to the owner or an admin.
func CanView(c *models.Content, v Viewer, now time.Time) bool {
	switch c.State(now) {
	case models.StateSoftDeleted:
		return false
	case models.StatePublished:
		return true
	default:
		return v.Owns(c) || v.IsAdmin()
	}
}

// Scope is the row filter a list query must apply. It is the set form of
// CanView: every scope excludes soft-deleted rows.
type Scope int

const (
	// ScopePublished restricts to published content only.
	ScopePublished Scope = iota

	// ScopePublishedOrOwned adds the viewer's own content in any state.
	ScopePublishedOrOwned

	// ScopeOwned restricts to the viewer's own content in any state
	// ("mine" mode: bypasses the publish check, still excludes deleted).
	ScopeOwned

	// ScopeAll is every non-deleted row, for admins.
	ScopeAll
)

// ListScope derives the scope a list query must use for the viewer.
// Mine mode requires an authenticated viewer; callers enforce that before
// asking for a scope.
func ListScope(v Viewer, mine bool) Scope {
	switch {
	case mine:
		return ScopeOwned
	case v.IsAdmin():
		return ScopeAll
	case v.IsAuthenticated():
		return ScopePublishedOrOwned
	default:
		return ScopePublished
	}
}
