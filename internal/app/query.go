package app

import (
	"sort"
	"strings"
	"time"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

const defaultPageSize = 20

// RunQuery applies the management-view query spec to an
// approval-annotated collection: text filter, status filter, rating
// floor, stable sort, then clamped pagination. Pure: the input slice is
// never mutated.
func RunQuery(reviews []domain.ApprovedReview, q domain.ReviewQuery) domain.ReviewPage {
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}

	filtered := filterText(reviews, q.Search)
	filtered = filterStatus(filtered, q.Status)
	filtered = filterMinRating(filtered, q.MinRating)
	sortReviews(filtered, q.SortBy)

	total := len(filtered)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page > totalPages {
		page = totalPages // stale page state after filters shrank the set
	}

	lo := (page - 1) * q.PageSize
	hi := lo + q.PageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return domain.ReviewPage{
		Items:      filtered[lo:hi],
		Page:       page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

func filterText(in []domain.ApprovedReview, search string) []domain.ApprovedReview {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		out := make([]domain.ApprovedReview, len(in))
		copy(out, in)
		return out
	}
	out := make([]domain.ApprovedReview, 0, len(in))
	for _, rv := range in {
		if matchText(rv, needle) {
			out = append(out, rv)
		}
	}
	return out
}

func matchText(rv domain.ApprovedReview, needle string) bool {
	if strings.Contains(strings.ToLower(rv.ID), needle) {
		return true
	}
	for _, f := range []*string{rv.GuestName, rv.ListingName, rv.PublicReview} {
		if f != nil && strings.Contains(strings.ToLower(*f), needle) {
			return true
		}
	}
	return false
}

func filterStatus(in []domain.ApprovedReview, status string) []domain.ApprovedReview {
	if status != domain.StatusApproved && status != domain.StatusPending {
		return in
	}
	want := status == domain.StatusApproved
	out := in[:0]
	for _, rv := range in {
		if rv.Approved == want {
			out = append(out, rv)
		}
	}
	return out
}

func filterMinRating(in []domain.ApprovedReview, min *float64) []domain.ApprovedReview {
	if min == nil {
		return in
	}
	// A nil rating never passes an active floor.
	out := in[:0]
	for _, rv := range in {
		if rv.Rating != nil && *rv.Rating >= *min {
			out = append(out, rv)
		}
	}
	return out
}

func sortReviews(in []domain.ApprovedReview, by string) {
	switch by {
	case domain.SortOldest:
		sort.SliceStable(in, func(i, j int) bool {
			return submittedUnix(in[i]) < submittedUnix(in[j])
		})
	case domain.SortHighest:
		sort.SliceStable(in, func(i, j int) bool {
			return ratingOrZero(in[i]) > ratingOrZero(in[j])
		})
	case domain.SortLowest:
		sort.SliceStable(in, func(i, j int) bool {
			return ratingOrZero(in[i]) < ratingOrZero(in[j])
		})
	default: // newest
		sort.SliceStable(in, func(i, j int) bool {
			return submittedUnix(in[i]) > submittedUnix(in[j])
		})
	}
}

// submittedUnix sorts missing/unparseable timestamps as epoch 0.
func submittedUnix(rv domain.ApprovedReview) int64 {
	if rv.SubmittedAt == nil {
		return 0
	}
	t, err := time.Parse(time.RFC3339, *rv.SubmittedAt)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func ratingOrZero(rv domain.ApprovedReview) float64 {
	if rv.Rating == nil {
		return 0
	}
	return *rv.Rating
}
