package visibility

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/models"
)

func TestCanView(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	ownerID := uuid.New()
	owner := Viewer{ID: ownerID, Role: models.RoleUser}
	other := Viewer{ID: uuid.New(), Role: models.RoleUser}
	admin := Viewer{ID: uuid.New(), Role: models.RoleAdmin}
	anon := Anonymous()

	draft := &models.Content{AuthorID: ownerID}
	scheduled := &models.Content{AuthorID: ownerID, PublishAt: &future}
	published := &models.Content{AuthorID: ownerID, PublishAt: &past}
	deleted := &models.Content{AuthorID: ownerID, PublishAt: &past, DeletedAt: &past}

	tests := []struct {
		name    string
		content *models.Content
		viewer  Viewer
		want    bool
	}{
		{"published visible to anonymous", published, anon, true},
		{"published visible to other user", published, other, true},
		{"draft hidden from anonymous", draft, anon, false},
		{"draft hidden from other user", draft, other, false},
		{"draft visible to owner", draft, owner, true},
		{"draft visible to admin", draft, admin, true},
		{"scheduled hidden from other user", scheduled, other, false},
		{"scheduled visible to owner", scheduled, owner, true},
		{"deleted hidden from owner", deleted, owner, false},
		{"deleted hidden from admin", deleted, admin, false},
		{"deleted hidden from anonymous", deleted, anon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanView(tt.content, tt.viewer, now); got != tt.want {
				t.Errorf("CanView: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListScope(t *testing.T) {
	user := Viewer{ID: uuid.New(), Role: models.RoleUser}
	admin := Viewer{ID: uuid.New(), Role: models.RoleAdmin}

	if got := ListScope(Anonymous(), false); got != ScopePublished {
		t.Errorf("anonymous: got %v, want ScopePublished", got)
	}
	if got := ListScope(user, false); got != ScopePublishedOrOwned {
		t.Errorf("user: got %v, want ScopePublishedOrOwned", got)
	}
	if got := ListScope(admin, false); got != ScopeAll {
		t.Errorf("admin: got %v, want ScopeAll", got)
	}
	if got := ListScope(user, true); got != ScopeOwned {
		t.Errorf("mine: got %v, want ScopeOwned", got)
	}
	// Mine wins even for admins, listing their own content only.
	if got := ListScope(admin, true); got != ScopeOwned {
		t.Errorf("admin mine: got %v, want ScopeOwned", got)
	}
}

func TestViewerHelpers(t *testing.T) {
	if Anonymous().IsAuthenticated() {
		t.Error("anonymous viewer must not be authenticated")
	}
	v := Viewer{ID: uuid.New(), Role: models.RoleAdmin}
	if !v.IsAdmin() || !v.IsAuthenticated() {
		t.Error("admin viewer must be authenticated admin")
	}

	c := &models.Content{AuthorID: v.ID}
	if !v.Owns(c) {
		t.Error("expected ownership for matching author id")
	}
	if Anonymous().Owns(c) {
		t.Error("anonymous must never own content")
	}
}
