package app

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

/********** coercion helpers **********/

// asString string-coerces any raw identifier-ish value. JSON numbers
// arrive as float64; integral values must come back without a fraction
// ("7453", not "7453.000000").
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asFloat accepts the numeric shapes a decoded payload can carry.
// Strings are deliberately not parsed: a top-level rating only counts
// when the channel sent an actual number.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func strField(rec domain.RawReviewRecord, key string) *string {
	if v, ok := rec[key].(string); ok {
		return &v
	}
	return nil
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

/********** rating resolver **********/

// ResolveRating computes the effective rating of one raw record: the
// top-level rating verbatim when it is a finite number, otherwise the
// 1-decimal mean of the numeric category sub-ratings, otherwise nil.
// Malformed category entries are skipped, never an error.
func ResolveRating(rec domain.RawReviewRecord) *float64 {
	if f, ok := asFloat(rec["rating"]); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return &f
	}
	var sum float64
	var n int
	for _, c := range rawCategories(rec) {
		if c.Rating != nil {
			sum += *c.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := round1(sum / float64(n))
	return &avg
}

func rawCategories(rec domain.RawReviewRecord) []domain.CategoryRating {
	list, ok := rec["reviewCategory"].([]any)
	if !ok {
		return nil
	}
	out := make([]domain.CategoryRating, 0, len(list))
	for _, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		cr := domain.CategoryRating{}
		if s, ok := m["category"].(string); ok {
			cr.Category = s
		}
		if f, ok := asFloat(m["rating"]); ok {
			cr.Rating = &f
		}
		out = append(out, cr)
	}
	return out
}

/********** channel derivation **********/

// deriveChannel maps the raw type tag to a channel. Substring cascade,
// first match wins; absent type means "unknown".
func deriveChannel(rec domain.RawReviewRecord) string {
	t, ok := rec["type"].(string)
	if !ok || t == "" {
		return "unknown"
	}
	low := strings.ToLower(t)
	switch {
	case strings.Contains(low, "host-to-guest"):
		return "host"
	case strings.Contains(low, "guest-to-host"):
		return "guest"
	case strings.Contains(low, "google"):
		return "google"
	default:
		return low
	}
}

/********** timestamp **********/

// Layouts seen in channel payloads; anything unparseable degrades to nil.
var submittedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseSubmittedAt(rec domain.RawReviewRecord) *string {
	s, ok := rec["submittedAt"].(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range submittedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.UTC().Format(time.RFC3339)
			return &iso
		}
	}
	return nil
}

/********** normalizer **********/

// NormalizeReview maps one raw record into the canonical shape. Every
// optional field may be absent or mistyped; all of that is absorbed
// here so the rest of the pipeline never null-checks shapes.
func NormalizeReview(rec domain.RawReviewRecord) domain.CanonicalReview {
	var listingID *string
	if v, ok := rec["listingId"]; ok && v != nil {
		if s := asString(v); s != "" {
			listingID = &s
		}
	}
	return domain.CanonicalReview{
		ID:           asString(rec["id"]),
		ListingID:    listingID,
		ListingName:  strField(rec, "listingName"),
		Channel:      deriveChannel(rec),
		Type:         strField(rec, "type"),
		Status:       strField(rec, "status"),
		Rating:       ResolveRating(rec),
		Categories:   rawCategories(rec),
		SubmittedAt:  parseSubmittedAt(rec),
		GuestName:    strField(rec, "guestName"),
		PublicReview: strField(rec, "publicReview"),
		Raw:          rec,
	}
}

// NormalizeAll normalizes a payload's records independently and enforces
// id uniqueness within the pass: a duplicate id overwrites the earlier
// record in place (last write wins, first-seen position kept).
func NormalizeAll(recs []domain.RawReviewRecord) []domain.CanonicalReview {
	out := make([]domain.CanonicalReview, 0, len(recs))
	seen := make(map[string]int, len(recs))
	for _, rec := range recs {
		rv := NormalizeReview(rec)
		if idx, ok := seen[rv.ID]; ok {
			out[idx] = rv
			continue
		}
		seen[rv.ID] = len(out)
		out = append(out, rv)
	}
	return out
}
