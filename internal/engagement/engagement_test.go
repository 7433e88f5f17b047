package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"blogpulse/internal/errs"
	"blogpulse/internal/models"
	"blogpulse/internal/visibility"
)

// fakeContentFinder serves a fixed set of content rows.
type fakeContentFinder struct {
	items map[uuid.UUID]*models.Content
}

func (f *fakeContentFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Content, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// fakeStatsRepo is an in-memory StatsRepo. A mutex guards every counter
// mutation, matching the atomicity the SQL layer provides per row.
type fakeStatsRepo struct {
	mu      sync.Mutex
	views   map[uuid.UUID]int64
	likes   map[uuid.UUID]int64
	shares  map[uuid.UUID]int64
	likedBy map[uuid.UUID]map[uuid.UUID]bool

	// failures, when positive, makes the next N mutations fail with err.
	failures int
	err      error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		views:   map[uuid.UUID]int64{},
		likes:   map[uuid.UUID]int64{},
		shares:  map[uuid.UUID]int64{},
		likedBy: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (f *fakeStatsRepo) takeFailure() error {
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return nil
}

func (f *fakeStatsRepo) Get(_ context.Context, contentID uuid.UUID) (*models.EngagementStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.EngagementStats{
		ContentID: contentID,
		Views:     f.views[contentID],
		Likes:     f.likes[contentID],
		Shares:    f.shares[contentID],
	}, nil
}

func (f *fakeStatsRepo) IncrementViews(_ context.Context, contentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return 0, err
	}
	f.views[contentID]++
	return f.views[contentID], nil
}

func (f *fakeStatsRepo) IncrementShares(_ context.Context, contentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return 0, err
	}
	f.shares[contentID]++
	return f.shares[contentID], nil
}

func (f *fakeStatsRepo) AddLike(_ context.Context, contentID, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return 0, err
	}
	set := f.likedBy[contentID]
	if set == nil {
		set = map[uuid.UUID]bool{}
		f.likedBy[contentID] = set
	}
	if set[userID] {
		return 0, errs.ErrAlreadyLiked
	}
	set[userID] = true
	f.likes[contentID]++
	return f.likes[contentID], nil
}

func (f *fakeStatsRepo) HasLiked(_ context.Context, contentID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likedBy[contentID][userID], nil
}

func published(owner uuid.UUID) *models.Content {
	at := time.Now().Add(-time.Hour)
	return &models.Content{ID: uuid.New(), Title: "T", AuthorID: owner, PublishAt: &at}
}

func testService(items ...*models.Content) (*Service, *fakeStatsRepo) {
	finder := &fakeContentFinder{items: map[uuid.UUID]*models.Content{}}
	for _, c := range items {
		finder.items[c.ID] = c
	}
	stats := newFakeStatsRepo()
	return New(finder, stats), stats
}

func reader() visibility.Viewer {
	return visibility.Viewer{ID: uuid.New(), Role: models.RoleUser}
}

func TestConcurrentViewsAllCount(t *testing.T) {
	ownerID := uuid.New()
	c := published(ownerID)
	svc, stats := testService(c)
	ctx := context.Background()
	viewer := reader()

	const n = 50
	var wg sync.WaitGroup
	errc := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errc <- svc.RecordView(ctx, c.ID, viewer)
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		if err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}

	st, err := svc.Stats(ctx, c.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Views != n {
		t.Errorf("views: got %d, want %d", st.Views, n)
	}
	_ = stats
}

func TestOwnerViewsNotCounted(t *testing.T) {
	ownerID := uuid.New()
	c := published(ownerID)
	svc, _ := testService(c)
	ctx := context.Background()

	owner := visibility.Viewer{ID: ownerID, Role: models.RoleUser}
	if err := svc.RecordView(ctx, c.ID, owner); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	st, err := svc.Stats(ctx, c.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Views != 0 {
		t.Errorf("views after owner view: got %d, want 0", st.Views)
	}
}

func TestConcurrentLikesStayConsistent(t *testing.T) {
	c := published(uuid.New())
	svc, stats := testService(c)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errc := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordLike(ctx, c.ID, reader())
			errc <- err
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		if err != nil {
			t.Fatalf("RecordLike: %v", err)
		}
	}

	st, err := svc.Stats(ctx, c.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Likes != n {
		t.Errorf("likes: got %d, want %d", st.Likes, n)
	}
	if got := len(stats.likedBy[c.ID]); got != n {
		t.Errorf("liked set size: got %d, want %d", got, n)
	}
}

func TestDuplicateLikeRejected(t *testing.T) {
	c := published(uuid.New())
	svc, _ := testService(c)
	ctx := context.Background()
	user := reader()

	likes, err := svc.RecordLike(ctx, c.ID, user)
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if likes != 1 {
		t.Errorf("likes: got %d, want 1", likes)
	}

	if _, err := svc.RecordLike(ctx, c.ID, user); !errs.IsConflict(err) {
		t.Errorf("second like: got %v, want ErrAlreadyLiked", err)
	}

	st, _ := svc.Stats(ctx, c.ID)
	if st.Likes != 1 {
		t.Errorf("likes after duplicate: got %d, want 1", st.Likes)
	}

	liked, err := svc.HasLiked(ctx, c.ID, user.ID)
	if err != nil || !liked {
		t.Errorf("HasLiked: got %v, %v, want true, nil", liked, err)
	}
}

func TestSelfLikeRejected(t *testing.T) {
	ownerID := uuid.New()
	c := published(ownerID)
	svc, _ := testService(c)

	owner := visibility.Viewer{ID: ownerID, Role: models.RoleUser}
	if _, err := svc.RecordLike(context.Background(), c.ID, owner); !errors.Is(err, errs.ErrSelfLike) {
		t.Errorf("self like: got %v, want ErrSelfLike", err)
	}
}

func TestSharesUnrestricted(t *testing.T) {
	ownerID := uuid.New()
	c := published(ownerID)
	svc, _ := testService(c)
	ctx := context.Background()

	// Shares are not deduplicated, and the owner may share too.
	for i := 0; i < 3; i++ {
		if _, err := svc.RecordShare(ctx, c.ID); err != nil {
			t.Fatalf("RecordShare: %v", err)
		}
	}

	st, _ := svc.Stats(ctx, c.ID)
	if st.Shares != 3 {
		t.Errorf("shares: got %d, want 3", st.Shares)
	}
}

func TestDeletedContentAcceptsNoEngagement(t *testing.T) {
	now := time.Now()
	c := published(uuid.New())
	c.DeletedAt = &now
	svc, _ := testService(c)
	ctx := context.Background()

	if err := svc.RecordView(ctx, c.ID, reader()); !errs.IsNotFound(err) {
		t.Errorf("view on deleted: got %v, want not-found", err)
	}
	if _, err := svc.RecordLike(ctx, c.ID, reader()); !errs.IsNotFound(err) {
		t.Errorf("like on deleted: got %v, want not-found", err)
	}
	if _, err := svc.RecordShare(ctx, c.ID); !errs.IsNotFound(err) {
		t.Errorf("share on deleted: got %v, want not-found", err)
	}
	if _, err := svc.Stats(ctx, c.ID); !errs.IsNotFound(err) {
		t.Errorf("stats on deleted: got %v, want not-found", err)
	}
}

func TestUnknownContentNotFound(t *testing.T) {
	svc, _ := testService()
	if err := svc.RecordView(context.Background(), uuid.New(), reader()); !errs.IsNotFound(err) {
		t.Errorf("view on unknown id: got %v, want not-found", err)
	}
}

func TestTransientFailuresRetried(t *testing.T) {
	c := published(uuid.New())
	svc, stats := testService(c)
	ctx := context.Background()

	stats.failures = 2
	stats.err = errs.New(errs.KindTransient, "connection reset")

	if err := svc.RecordView(ctx, c.ID, reader()); err != nil {
		t.Fatalf("RecordView with transient failures: %v", err)
	}
	st, _ := svc.Stats(ctx, c.ID)
	if st.Views != 1 {
		t.Errorf("views: got %d, want 1", st.Views)
	}
}

func TestTransientFailuresExhausted(t *testing.T) {
	c := published(uuid.New())
	svc, stats := testService(c)

	stats.failures = 10
	stats.err = errs.New(errs.KindTransient, "connection reset")

	err := svc.RecordView(context.Background(), c.ID, reader())
	if !errs.IsTransient(err) {
		t.Errorf("exhausted retries: got %v, want transient error", err)
	}
}

func TestNonTransientFailuresNotRetried(t *testing.T) {
	c := published(uuid.New())
	svc, stats := testService(c)

	stats.failures = 1
	stats.err = errs.New(errs.KindInternal, "constraint violated")

	if err := svc.RecordView(context.Background(), c.ID, reader()); err == nil {
		t.Fatal("expected error")
	}
	// A single non-transient failure consumed the budget without retry.
	if stats.failures != 0 {
		t.Errorf("failures remaining: got %d, want 0", stats.failures)
	}
	st, _ := svc.Stats(context.Background(), c.ID)
	if st.Views != 0 {
		t.Errorf("views: got %d, want 0", st.Views)
	}
}
