package app

import (
	"encoding/json"
	"fmt"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

// Reconcile decides which of the two recognized payload envelopes was
// received and routes it into the pipeline:
//
//   - {"data": [...]}   pre-grouped listing summaries, passed through
//     unchanged (already normalized by a prior stage);
//   - {"result": [...]} flat raw review list, normalized then grouped.
//
// Anything else is a malformed payload: an empty set plus a diagnostic
// error the caller may log. Reconcile never retries or falls back on
// its own — that is the fetch workflow's job.
func Reconcile(payload map[string]any) ([]domain.ListingSummary, error) {
	if payload == nil {
		return []domain.ListingSummary{}, fmt.Errorf("reconcile: nil payload")
	}

	if raw, ok := payload["data"]; ok {
		if _, isList := raw.([]any); !isList {
			return []domain.ListingSummary{}, fmt.Errorf("reconcile: data envelope is not a list")
		}
		// Round-trip through JSON: the envelope arrives as loose maps.
		b, err := json.Marshal(raw)
		if err != nil {
			return []domain.ListingSummary{}, fmt.Errorf("reconcile: marshal data envelope: %w", err)
		}
		var out []domain.ListingSummary
		if err := json.Unmarshal(b, &out); err != nil {
			return []domain.ListingSummary{}, fmt.Errorf("reconcile: decode data envelope: %w", err)
		}
		if out == nil {
			out = []domain.ListingSummary{}
		}
		return out, nil
	}

	if raw, ok := payload["result"]; ok {
		list, isList := raw.([]any)
		if !isList {
			return []domain.ListingSummary{}, fmt.Errorf("reconcile: result envelope is not a list")
		}
		recs := make([]domain.RawReviewRecord, 0, len(list))
		for _, it := range list {
			if m, ok := it.(map[string]any); ok {
				recs = append(recs, domain.RawReviewRecord(m))
			}
		}
		return AggregateByListing(NormalizeAll(recs)), nil
	}

	return []domain.ListingSummary{}, fmt.Errorf("reconcile: payload matches neither data nor result envelope")
}
