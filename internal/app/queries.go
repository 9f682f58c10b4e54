package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

const (
	cacheKeyAll       = "listings:all"
	cacheKeyListing   = "listing:%s"
	degradedMsg       = "guest reviews are temporarily unavailable"
	approvalsWarnSkip = "approval store read failed; serving everything as pending"
)

// DashboardService is the read/write surface behind both the manager
// dashboard and the public property pages. It owns the fetch→fallback→
// reconcile workflow, the cache-aside layer, and the approval overlay.
type DashboardService struct {
	primary  domain.ReviewSource
	fallback domain.ReviewSource
	store    domain.ApprovalStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDashboardService(primary, fallback domain.ReviewSource, store domain.ApprovalStore, cache domain.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{primary: primary, fallback: fallback, store: store, cache: cache, cacheTTL: ttl}
}

// Summaries returns the reconciled listing summaries. The second return
// is a human-readable degradation message, empty on a healthy read: the
// dashboard must always render something, so source trouble surfaces as
// an empty set plus a message rather than an error.
func (s *DashboardService) Summaries(ctx context.Context) ([]domain.ListingSummary, string) {
	if s.cache != nil {
		var cached []domain.ListingSummary
		if ok, _ := s.cache.Get(ctx, cacheKeyAll, &cached); ok {
			return cached, ""
		}
	}

	summaries, msg := s.fetchAndReconcile(ctx)
	if msg == "" && s.cache != nil {
		_ = s.cache.Set(ctx, cacheKeyAll, summaries, int(s.cacheTTL.Seconds()))
	}
	return summaries, msg
}

// fetchAndReconcile tries the primary provider, then the fallback
// document. Failure modes are not distinguished: any error or malformed
// envelope means "try the next source".
func (s *DashboardService) fetchAndReconcile(ctx context.Context) ([]domain.ListingSummary, string) {
	if payload, err := s.primary.FetchReviews(ctx); err != nil {
		log.Warn().Err(err).Msg("primary review source unavailable")
	} else if summaries, rerr := Reconcile(payload); rerr != nil {
		log.Warn().Err(rerr).Msg("primary payload malformed")
	} else {
		return summaries, ""
	}

	if s.fallback != nil {
		if payload, err := s.fallback.FetchReviews(ctx); err != nil {
			log.Warn().Err(err).Msg("fallback review source unavailable")
		} else if summaries, rerr := Reconcile(payload); rerr != nil {
			log.Warn().Err(rerr).Msg("fallback payload malformed")
		} else {
			return summaries, ""
		}
	}

	return []domain.ListingSummary{}, degradedMsg
}

// Approvals reads the full approval map. A store read failure degrades
// to an empty map: the dashboard then shows everything as pending
// instead of erroring.
func (s *DashboardService) Approvals(ctx context.Context) domain.ApprovalMap {
	m, err := s.store.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg(approvalsWarnSkip)
		return domain.ApprovalMap{}
	}
	return m
}

// SetApproval upserts one approval entry and returns the full updated
// map. Store failures surface to the caller so the UI can reconcile its
// optimistic state.
func (s *DashboardService) SetApproval(ctx context.Context, id string, approved bool) (domain.ApprovalMap, error) {
	if id == "" {
		return nil, fmt.Errorf("set approval: empty review id")
	}
	return s.store.Set(ctx, id, approved)
}

// Dashboard serves the management view: the full annotated collection
// run through the query engine.
func (s *DashboardService) Dashboard(ctx context.Context, q domain.ReviewQuery) (domain.ReviewPage, string) {
	summaries, msg := s.Summaries(ctx)
	annotated := MergeApprovals(flatten(summaries), s.Approvals(ctx))
	return RunQuery(annotated, q), msg
}

// Listings serves the manager's property table: grouped summaries with
// per-review approval flags.
func (s *DashboardService) Listings(ctx context.Context) ([]domain.AnnotatedListing, string) {
	summaries, msg := s.Summaries(ctx)
	approvals := s.Approvals(ctx)
	out := make([]domain.AnnotatedListing, 0, len(summaries))
	for _, ls := range summaries {
		out = append(out, domain.AnnotatedListing{
			ListingID:     ls.ListingID,
			ListingName:   ls.ListingName,
			Reviews:       MergeApprovals(ls.Reviews, approvals),
			Counts:        ls.Counts,
			AverageRating: ls.AverageRating,
		})
	}
	return out, msg
}

// PublicListing returns one listing restricted to approved reviews —
// the only feed for public property pages. A listing key that does not
// resolve is domain.ErrNotFound, distinct from an empty approved set.
func (s *DashboardService) PublicListing(ctx context.Context, id string) (domain.ListingSummary, error) {
	key := fmt.Sprintf(cacheKeyListing, id)
	if s.cache != nil {
		var cached domain.ListingSummary
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return PublicSummary(cached, s.Approvals(ctx)), nil
		}
	}

	summaries, _ := s.Summaries(ctx)
	for _, ls := range summaries {
		if summaryKey(ls) != id {
			continue
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, ls, int(s.cacheTTL.Seconds()))
		}
		return PublicSummary(ls, s.Approvals(ctx)), nil
	}
	return domain.ListingSummary{}, domain.ErrNotFound
}

// RefreshAll bypasses the cache, re-reconciles from the sources, and
// rewrites the all-listings key. Used by the refresher job.
func (s *DashboardService) RefreshAll(ctx context.Context) ([]domain.ListingSummary, error) {
	summaries, msg := s.fetchAndReconcile(ctx)
	if msg != "" {
		return nil, fmt.Errorf("refresh: %s", msg)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKeyAll, summaries, int(s.cacheTTL.Seconds()))
	}
	return summaries, nil
}

// CacheListing warms one per-listing cache key.
func (s *DashboardService) CacheListing(ctx context.Context, ls domain.ListingSummary) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, fmt.Sprintf(cacheKeyListing, summaryKey(ls)), ls, int(s.cacheTTL.Seconds()))
}

// summaryKey mirrors the aggregator's grouping key on a finished summary.
func summaryKey(ls domain.ListingSummary) string {
	if ls.ListingID != nil && *ls.ListingID != "" {
		return *ls.ListingID
	}
	if ls.ListingName != nil && *ls.ListingName != "" {
		return *ls.ListingName
	}
	return domain.UnknownListingKey
}

func flatten(summaries []domain.ListingSummary) []domain.CanonicalReview {
	var out []domain.CanonicalReview
	for _, ls := range summaries {
		out = append(out, ls.Reviews...)
	}
	return out
}
