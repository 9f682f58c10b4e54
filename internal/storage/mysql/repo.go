// Package mysql backs the approval map with a single keyed table, for
// deployments that already run MySQL instead of the default file store.
package mysql

import (
	"context"
	"database/sql"

	"github.com/chiedozie07/flex-reviews-dashboard/internal/domain"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Migrate creates the approvals table when missing, so first access
// never fails on a fresh database.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createApprovalsSQL)
	return err
}

func (s *Store) Get(ctx context.Context) (domain.ApprovalMap, error) {
	rows, err := s.db.QueryContext(ctx, selectApprovalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := domain.ApprovalMap{}
	for rows.Next() {
		var id string
		var approved bool
		if err := rows.Scan(&id, &approved); err != nil {
			return nil, err
		}
		m[id] = approved
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) Set(ctx context.Context, id string, approved bool) (domain.ApprovalMap, error) {
	if _, err := s.db.ExecContext(ctx, upsertApprovalSQL, id, approved); err != nil {
		return nil, err
	}
	// Re-read so the caller sees the latest full map, not a stale merge.
	return s.Get(ctx)
}
