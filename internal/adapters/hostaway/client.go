// internal/adapters/hostaway/client.go
package hostaway

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/adapters/observability"
)

// Client fetches the raw reviews payload from the Hostaway API.
// It does not interpret the payload shape — reconciliation does that —
// and it collapses every failure mode into a plain error: callers treat
// the provider uniformly as "unavailable" and fall back.
type Client struct {
	base      string
	hc        *http.Client
	accountID string
	key       string
	rl        *rate.Limiter
}

func New(base, accountID, key string, rps int) (*Client, error) {
	if accountID == "" || key == "" {
		return nil, fmt.Errorf("hostaway account id and API key are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		hc:        &http.Client{Timeout: 20 * time.Second},
		accountID: accountID,
		key:       key,
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// FetchReviews performs a GET with client-side rate limiting and retries
// on 429/transient 5xx, honoring Retry-After when provided.
func (c *Client) FetchReviews(ctx context.Context) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/reviews?accountId=%s", c.base, c.accountID)
	start := time.Now()
	out, status, err := c.get(ctx, url)
	observability.ObserveExternal("hostaway", "/reviews", status, time.Since(start))
	return out, err
}

func (c *Client) get(ctx context.Context, url string) (map[string]any, int, error) {
	var lastErr error
	lastStatus := 0

	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Authorization", c.key)
		req.Header.Set("Account-Id", c.accountID)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "flex-reviews-dashboard/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}
			return nil, 0, lastErr
		}

		lastStatus = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			var out map[string]any
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, lastStatus, fmt.Errorf("hostaway: decode response: %w", err)
			}
			return out, lastStatus, nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("hostaway: remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, lastStatus, ctx.Err()
			}
			return nil, lastStatus, lastErr

		default:
			// Any other status is a terminal "unavailable"; keep a small
			// body excerpt for diagnostics.
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, lastStatus, fmt.Errorf("hostaway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return nil, lastStatus, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up
// to +50% jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
