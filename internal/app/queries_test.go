package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/app"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	payload map[string]any
	err     error
	calls   int
}

func (f *fakeSource) FetchReviews(ctx context.Context) (map[string]any, error) {
	f.calls++
	return f.payload, f.err
}

type fakeStore struct {
	m      domain.ApprovalMap
	getErr error
	setErr error
}

func (f *fakeStore) Get(ctx context.Context) (domain.ApprovalMap, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.m == nil {
		f.m = domain.ApprovalMap{}
	}
	return f.m, nil
}

func (f *fakeStore) Set(ctx context.Context, id string, approved bool) (domain.ApprovalMap, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	if f.m == nil {
		f.m = domain.ApprovalMap{}
	}
	f.m[id] = approved
	return f.m, nil
}

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func flatPayload() map[string]any {
	return map[string]any{
		"status": "success",
		"result": []any{
			map[string]any{"id": "7", "listingId": "A", "listingName": "Flat A", "rating": 9.0, "submittedAt": "2024-01-02T00:00:00Z"},
			map[string]any{"id": "8", "listingId": "A", "listingName": "Flat A", "rating": 7.0},
			map[string]any{"id": "9", "listingId": "B", "listingName": "Flat B", "rating": 5.0},
		},
	}
}

// ---- tests ----

func TestDashboard_FallbackWhenPrimaryFails(t *testing.T) {
	primary := &fakeSource{err: errors.New("boom")}
	fallback := &fakeSource{payload: flatPayload()}
	svc := app.NewDashboardService(primary, fallback, &fakeStore{}, nil, time.Minute)

	page, msg := svc.Dashboard(context.Background(), domain.ReviewQuery{})
	if msg != "" {
		t.Fatalf("fallback succeeded, no degradation message expected: %q", msg)
	}
	if page.Total != 3 {
		t.Fatalf("expected 3 reviews via fallback, got %d", page.Total)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback not consulted")
	}
}

func TestDashboard_BothSourcesDown(t *testing.T) {
	svc := app.NewDashboardService(
		&fakeSource{err: errors.New("down")},
		&fakeSource{err: errors.New("also down")},
		&fakeStore{}, nil, time.Minute)

	page, msg := svc.Dashboard(context.Background(), domain.ReviewQuery{})
	if msg == "" {
		t.Fatalf("expected a human-readable degradation message")
	}
	if page.Total != 0 || len(page.Items) != 0 || page.TotalPages != 1 {
		t.Fatalf("expected an empty but renderable page, got %+v", page)
	}
}

func TestDashboard_MalformedPrimaryFallsBack(t *testing.T) {
	primary := &fakeSource{payload: map[string]any{"unexpected": true}}
	fallback := &fakeSource{payload: flatPayload()}
	svc := app.NewDashboardService(primary, fallback, &fakeStore{}, nil, time.Minute)

	page, msg := svc.Dashboard(context.Background(), domain.ReviewQuery{})
	if msg != "" || page.Total != 3 {
		t.Fatalf("malformed primary should fall back: msg=%q total=%d", msg, page.Total)
	}
}

func TestDashboard_ApprovalReadFailureDegradesToPending(t *testing.T) {
	svc := app.NewDashboardService(
		&fakeSource{payload: flatPayload()}, nil,
		&fakeStore{getErr: errors.New("disk gone")}, nil, time.Minute)

	page, _ := svc.Dashboard(context.Background(), domain.ReviewQuery{Status: domain.StatusApproved})
	if page.Total != 0 {
		t.Fatalf("store read failure must surface everything as pending, got %d approved", page.Total)
	}
}

func TestSummaries_CacheHitSkipsSources(t *testing.T) {
	primary := &fakeSource{payload: flatPayload()}
	cache := &fakeCache{}
	svc := app.NewDashboardService(primary, nil, &fakeStore{}, cache, time.Minute)

	if _, msg := svc.Summaries(context.Background()); msg != "" {
		t.Fatalf("unexpected msg: %q", msg)
	}
	if _, msg := svc.Summaries(context.Background()); msg != "" {
		t.Fatalf("unexpected msg: %q", msg)
	}
	if primary.calls != 1 {
		t.Fatalf("expected second read from cache, primary called %d times", primary.calls)
	}
}

func TestPublicListing_ApprovedOnlyAndNotFound(t *testing.T) {
	store := &fakeStore{m: domain.ApprovalMap{"7": true}}
	svc := app.NewDashboardService(&fakeSource{payload: flatPayload()}, nil, store, nil, time.Minute)

	ls, err := svc.PublicListing(context.Background(), "A")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ls.Counts != 1 || ls.Reviews[0].ID != "7" {
		t.Fatalf("public listing must contain only approved reviews: %+v", ls)
	}
	if ls.AverageRating == nil || *ls.AverageRating != 9.0 {
		t.Fatalf("public average over approved subset: %v", ls.AverageRating)
	}

	if _, err := svc.PublicListing(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetApproval(t *testing.T) {
	store := &fakeStore{}
	svc := app.NewDashboardService(&fakeSource{payload: flatPayload()}, nil, store, nil, time.Minute)

	m, err := svc.SetApproval(context.Background(), "8", true)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !m["8"] {
		t.Fatalf("approval not recorded: %v", m)
	}
	if _, err := svc.SetApproval(context.Background(), "", true); err == nil {
		t.Fatalf("empty id must be rejected")
	}

	svc2 := app.NewDashboardService(&fakeSource{payload: flatPayload()}, nil,
		&fakeStore{setErr: errors.New("no space")}, nil, time.Minute)
	if _, err := svc2.SetApproval(context.Background(), "8", true); err == nil {
		t.Fatalf("store write failure must surface")
	}
}

func TestListings_AnnotatesApprovals(t *testing.T) {
	store := &fakeStore{m: domain.ApprovalMap{"9": true}}
	svc := app.NewDashboardService(&fakeSource{payload: flatPayload()}, nil, store, nil, time.Minute)

	out, msg := svc.Listings(context.Background())
	if msg != "" || len(out) != 2 {
		t.Fatalf("unexpected listings: msg=%q n=%d", msg, len(out))
	}
	if out[0].Reviews[0].Approved || !out[1].Reviews[0].Approved {
		t.Fatalf("approval annotation wrong: %+v", out)
	}
}

func TestRefreshAll_WarmsCache(t *testing.T) {
	cache := &fakeCache{}
	svc := app.NewDashboardService(&fakeSource{payload: flatPayload()}, nil, &fakeStore{}, cache, time.Minute)

	summaries, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	for _, ls := range summaries {
		if err := svc.CacheListing(context.Background(), ls); err != nil {
			t.Fatalf("cache listing: %v", err)
		}
	}
	if _, ok := cache.store["listing:A"]; !ok {
		t.Fatalf("per-listing key not warmed: %v", cache.store)
	}
}
