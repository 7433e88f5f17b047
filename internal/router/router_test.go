package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"blogpulse/internal/engagement"
	"blogpulse/internal/handlers"
	"blogpulse/internal/models"
	"blogpulse/internal/session"
)

// stubFinder serves a fixed content set to the engagement service.
type stubFinder struct {
	items map[uuid.UUID]*models.Content
}

func (f *stubFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Content, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// stubStats counts in memory.
type stubStats struct {
	mu     sync.Mutex
	shares map[uuid.UUID]int64
	likes  map[uuid.UUID]int64
}

func newStubStats() *stubStats {
	return &stubStats{shares: map[uuid.UUID]int64{}, likes: map[uuid.UUID]int64{}}
}

func (s *stubStats) Get(_ context.Context, id uuid.UUID) (*models.EngagementStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.EngagementStats{ContentID: id, Likes: s.likes[id], Shares: s.shares[id]}, nil
}

func (s *stubStats) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubStats) IncrementShares(_ context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[id]++
	return s.shares[id], nil
}

func (s *stubStats) AddLike(_ context.Context, contentID, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[contentID]++
	return s.likes[contentID], nil
}

func (s *stubStats) HasLiked(_ context.Context, contentID, userID uuid.UUID) (bool, error) {
	return false, nil
}

// testRouter wires the full route tree over in-memory engagement state.
// The session store points at an unreachable Valkey, so every request
// resolves as anonymous: exactly what the auth-guard tests need.
func testRouter(t *testing.T) (http.Handler, *models.Content, *stubStats) {
	t.Helper()

	at := time.Now().Add(-time.Hour)
	c := &models.Content{ID: uuid.New(), Title: "T", AuthorID: uuid.New(), PublishAt: &at}
	finder := &stubFinder{items: map[uuid.UUID]*models.Content{c.ID: c}}
	stats := newStubStats()
	eng := engagement.New(finder, stats)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { client.Close() })
	sessions := session.NewStore(client, false)

	h := Handlers{
		Engagement: handlers.NewEngagement(eng),
	}
	return New(sessions, h), c, stats
}

func TestShareRequiresAuth(t *testing.T) {
	r, c, stats := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/content/"+c.ID.String()+"/share", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous share: got %d, want 401", w.Code)
	}
	if got := stats.shares[c.ID]; got != 0 {
		t.Errorf("shares after rejected request: got %d, want 0", got)
	}
}

func TestLikeRequiresAuth(t *testing.T) {
	r, c, stats := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/content/"+c.ID.String()+"/like", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous like: got %d, want 401", w.Code)
	}
	if got := stats.likes[c.ID]; got != 0 {
		t.Errorf("likes after rejected request: got %d, want 0", got)
	}
}

func TestHealthNeedsNoAuth(t *testing.T) {
	r, _, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health: got %d, want 200", w.Code)
	}
}
