package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("listing not found")

// ReviewSource returns one raw payload from a review provider. The shape
// of the payload (flat list vs pre-grouped) is decided later by
// reconciliation; any transport or status failure is a plain error — the
// caller treats every failure uniformly as "unavailable".
type ReviewSource interface {
	FetchReviews(ctx context.Context) (map[string]any, error)
}

// ApprovalStore is the durable review-id -> approved map. Get must
// return an empty (never nil) map when no state exists yet. Set upserts
// one entry against the latest persisted state and returns the full
// updated map. Implementations may add optimistic concurrency later;
// the interface shape does not forbid it.
type ApprovalStore interface {
	Get(ctx context.Context) (ApprovalMap, error)
	Set(ctx context.Context, id string, approved bool) (ApprovalMap, error)
}

// Cache is a read-through JSON cache for reconciled listing summaries.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
