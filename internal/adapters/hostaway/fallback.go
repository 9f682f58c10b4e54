package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource serves a payload from a local static document. Used as the
// secondary source when the live API is unavailable; the document uses
// the same envelope shapes the API would return.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) FetchReviews(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read mock document: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse mock document: %w", err)
	}
	return out, nil
}
