package domain

// Status filter values for the management view.
const (
	StatusAll      = "all"
	StatusApproved = "approved"
	StatusPending  = "pending"
)

// Sort orders for the management view.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortHighest = "highest"
	SortLowest  = "lowest"
)

// ReviewQuery is the management-view query spec. Zero values mean
// "no constraint" except Page/PageSize, which are defaulted by the
// query engine.
type ReviewQuery struct {
	Search    string
	Status    string // all|approved|pending
	MinRating *float64
	SortBy    string // newest|oldest|highest|lowest
	Page      int    // 1-indexed
	PageSize  int
}

// ReviewPage is one page of the filtered management view. Page reflects
// the page actually served, after clamping to the last valid page.
type ReviewPage struct {
	Items      []ApprovedReview `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}
