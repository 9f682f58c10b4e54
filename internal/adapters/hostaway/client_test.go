package hostaway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/hostaway"
)

func TestClient_FetchReviews_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"result": []any{map[string]any{"id": 7453.0}},
			})
		}
	}))
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "acct", "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.FetchReviews(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := got["result"]; !ok {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_FetchReviews_UnavailableOnBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := hostaway.New(ts.URL, "acct", "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.FetchReviews(ctx); err == nil {
		t.Fatalf("expected error for non-success status")
	}
}

func TestClient_RequiresCredentials(t *testing.T) {
	if _, err := hostaway.New("https://api.hostaway.com/v1", "", "", 5); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestFileSource_FetchReviews(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.json")
	doc := `{"status":"success","result":[{"id":1,"listingId":"A"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := hostaway.NewFileSource(path)
	got, err := src.FetchReviews(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, ok := got["result"]; !ok {
		t.Fatalf("unexpected payload: %+v", got)
	}

	missing := hostaway.NewFileSource(filepath.Join(dir, "nope.json"))
	if _, err := missing.FetchReviews(context.Background()); err == nil {
		t.Fatalf("expected error for missing document")
	}
}
