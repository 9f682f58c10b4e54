//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/http_server"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/app"
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
	mysqlstore "github.com/chiedozie07/flex-reviews-dashboard/internal/storage/mysql"
)

// fixed payload source; the e2e exercises the store + HTTP path, not
// the upstream client
type staticSource struct{}

func (staticSource) FetchReviews(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"status": "success",
		"result": []any{
			map[string]any{
				"id": 7453.0, "type": "guest-to-host", "rating": nil,
				"reviewCategory": []any{
					map[string]any{"category": "cleanliness", "rating": 10.0},
					map[string]any{"category": "communication", "rating": 8.0},
				},
				"submittedAt": "2020-08-21 22:45:14",
				"guestName":   "Shane Finkelstein",
				"listingId":   "12345", "listingName": "2B N1 A - 29 Shoreditch Heights",
			},
			map[string]any{
				"id": 7566.0, "type": "guest-to-host", "rating": 6.0,
				"listingId": "12345", "listingName": "2B N1 A - 29 Shoreditch Heights",
			},
		},
	}, nil
}

// ---------- the test ----------
func TestHTTP_EndToEnd_ApproveThenPublicView(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=flexrev",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "flexrev")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := mysqlstore.New(db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// Wire the real HTTP surface over the mysql-backed store
	svc := app.NewDashboardService(staticSource{}, nil, store, nil, time.Minute)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Svc: svc})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// 1) Before any approval, the public page has no reviews but the
	// listing itself resolves.
	res, err := http.Get(ts.URL + "/api/properties/12345/reviews")
	if err != nil {
		t.Fatalf("GET public: %v", err)
	}
	var before domain.ListingSummary
	if err := json.NewDecoder(res.Body).Decode(&before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || before.Counts != 0 {
		t.Fatalf("expected empty approved set, got status=%d counts=%d", res.StatusCode, before.Counts)
	}

	// 2) Approve one review through the management surface.
	req, _ := http.NewRequest(http.MethodPatch, ts.URL+"/api/reviews/approvals",
		strings.NewReader(`{"id":"7453","approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH approvals: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("approval status %d", res2.StatusCode)
	}

	// 3) The public page now carries exactly the approved review, with
	// the category-derived rating.
	res3, err := http.Get(ts.URL + "/api/properties/12345/reviews")
	if err != nil {
		t.Fatalf("GET public: %v", err)
	}
	defer res3.Body.Close()
	var after domain.ListingSummary
	if err := json.NewDecoder(res3.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Counts != 1 || after.Reviews[0].ID != "7453" {
		t.Fatalf("unexpected public view: %+v", after)
	}
	if after.Reviews[0].Rating == nil || *after.Reviews[0].Rating != 9.0 {
		t.Fatalf("expected resolved rating 9.0, got %v", after.Reviews[0].Rating)
	}
	if after.AverageRating == nil || *after.AverageRating != 9.0 {
		t.Fatalf("expected average 9.0 over approved subset, got %v", after.AverageRating)
	}
}
