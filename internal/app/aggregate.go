package app

import (
	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

// groupKey picks the grouping identity of a review: listing id when
// present, else listing name, else the shared "unknown" bucket.
func groupKey(rv domain.CanonicalReview) string {
	if rv.ListingID != nil && *rv.ListingID != "" {
		return *rv.ListingID
	}
	if rv.ListingName != nil && *rv.ListingName != "" {
		return *rv.ListingName
	}
	return domain.UnknownListingKey
}

// AggregateByListing groups canonical reviews into per-listing summaries.
// The first review seen for a key fixes the group's display identity;
// later naming variants within the same key are not reconciled. Output
// order is first-occurrence order.
func AggregateByListing(reviews []domain.CanonicalReview) []domain.ListingSummary {
	index := make(map[string]int, len(reviews))
	out := make([]domain.ListingSummary, 0, len(reviews))

	for _, rv := range reviews {
		key := groupKey(rv)
		idx, ok := index[key]
		if !ok {
			idx = len(out)
			index[key] = idx
			out = append(out, domain.ListingSummary{
				ListingID:   rv.ListingID,
				ListingName: rv.ListingName,
			})
		}
		out[idx].Reviews = append(out[idx].Reviews, rv)
	}

	for i := range out {
		out[i].Counts = len(out[i].Reviews)
		out[i].AverageRating = averageRating(out[i].Reviews)
	}
	return out
}

func averageRating(reviews []domain.CanonicalReview) *float64 {
	var sum float64
	var n int
	for _, rv := range reviews {
		if rv.Rating != nil {
			sum += *rv.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := round1(sum / float64(n))
	return &avg
}
