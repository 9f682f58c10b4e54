package domain

// RawReviewRecord is one review exactly as the channel API delivered it.
// Field names and types vary across channels, so the record stays a loose
// map and all interpretation happens in the normalizer. Unknown fields are
// preserved for passthrough.
type RawReviewRecord map[string]any

// CategoryRating is one sub-rating of a review, e.g. cleanliness.
// Rating is nil when the channel sent the category without a score.
type CategoryRating struct {
	Category string   `json:"category"`
	Rating   *float64 `json:"rating"`
}

// CanonicalReview is the normalized entity every downstream stage works
// with. It is built once per record and immutable afterwards; approval
// state is merged at read time, never stored here.
type CanonicalReview struct {
	ID           string           `json:"id"`
	ListingID    *string          `json:"listingId"`
	ListingName  *string          `json:"listingName"`
	Channel      string           `json:"channel"`
	Type         *string          `json:"type"`
	Status       *string          `json:"status"`
	Rating       *float64         `json:"rating"`
	Categories   []CategoryRating `json:"categories"`
	SubmittedAt  *string          `json:"submittedAt"` // RFC3339 or nil
	GuestName    *string          `json:"guestName"`
	PublicReview *string          `json:"publicReview"`
	Raw          RawReviewRecord  `json:"raw"`
}

// ApprovedReview is a CanonicalReview annotated with its effective
// approval flag (approval map lookup by id, default false).
type ApprovedReview struct {
	CanonicalReview
	Approved bool `json:"approved"`
}

// ListingSummary groups the reviews of one listing.
// Counts always equals len(Reviews); AverageRating is the 1-decimal mean
// of the non-nil ratings, nil when no review carries one.
type ListingSummary struct {
	ListingID     *string           `json:"listingId"`
	ListingName   *string           `json:"listingName"`
	Reviews       []CanonicalReview `json:"reviews"`
	Counts        int               `json:"counts"`
	AverageRating *float64          `json:"averageRating"`
}

// AnnotatedListing is a ListingSummary whose reviews carry their
// effective approval flags. Serves the manager's property table.
type AnnotatedListing struct {
	ListingID     *string          `json:"listingId"`
	ListingName   *string          `json:"listingName"`
	Reviews       []ApprovedReview `json:"reviews"`
	Counts        int              `json:"counts"`
	AverageRating *float64         `json:"averageRating"`
}

// ApprovalMap maps review id to its approved flag. Absent ids are
// implicitly unapproved.
type ApprovalMap map[string]bool

// UnknownListingKey buckets reviews that carry neither a listing id nor a
// listing name.
const UnknownListingKey = "unknown"
