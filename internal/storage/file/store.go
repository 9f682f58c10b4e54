// Package file persists the approval map as a JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

// Store is a single-writer file-backed approval map. Every Set re-reads
// the latest persisted state before merging, so concurrent upserts for
// distinct ids don't clobber each other, and replaces the document
// atomically so a failed write leaves the last good state intact.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store { return &Store{path: path} }

// Get returns the persisted map. No prior state is not an error: first
// access yields an empty map.
func (s *Store) Get(ctx context.Context) (domain.ApprovalMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

// Set upserts one entry and returns the full updated map.
func (s *Store) Set(ctx context.Context, id string, approved bool) (domain.ApprovalMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.read()
	if err != nil {
		return nil, err
	}
	m[id] = approved
	if err := s.write(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) read() (domain.ApprovalMap, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.ApprovalMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read approvals: %w", err)
	}
	if len(b) == 0 {
		return domain.ApprovalMap{}, nil
	}
	var m domain.ApprovalMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse approvals: %w", err)
	}
	if m == nil {
		m = domain.ApprovalMap{}
	}
	return m, nil
}

// write marshals to a sibling temp file and renames it into place.
func (s *Store) write(m domain.ApprovalMap) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal approvals: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create approvals dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".approvals-*")
	if err != nil {
		return fmt.Errorf("create temp approvals: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write approvals: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close approvals: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace approvals: %w", err)
	}
	return nil
}
