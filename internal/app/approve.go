package app

import (
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

// MergeApprovals overlays the approval map onto canonical reviews.
// Ids absent from the map are unapproved. Read-only: neither input is
// mutated.
func MergeApprovals(reviews []domain.CanonicalReview, approvals domain.ApprovalMap) []domain.ApprovedReview {
	out := make([]domain.ApprovedReview, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, domain.ApprovedReview{
			CanonicalReview: rv,
			Approved:        approvals[rv.ID],
		})
	}
	return out
}

// PublicView keeps only approved reviews. This filter is the exclusive
// feed for public property pages; unapproved reviews must never cross
// this boundary.
func PublicView(reviews []domain.ApprovedReview) []domain.ApprovedReview {
	out := make([]domain.ApprovedReview, 0, len(reviews))
	for _, rv := range reviews {
		if rv.Approved {
			out = append(out, rv)
		}
	}
	return out
}

// PublicSummary restricts one listing summary to its approved reviews
// and recomputes counts and average over the surviving subset.
func PublicSummary(ls domain.ListingSummary, approvals domain.ApprovalMap) domain.ListingSummary {
	kept := make([]domain.CanonicalReview, 0, len(ls.Reviews))
	for _, rv := range ls.Reviews {
		if approvals[rv.ID] {
			kept = append(kept, rv)
		}
	}
	return domain.ListingSummary{
		ListingID:     ls.ListingID,
		ListingName:   ls.ListingName,
		Reviews:       kept,
		Counts:        len(kept),
		AverageRating: averageRating(kept),
	}
}
