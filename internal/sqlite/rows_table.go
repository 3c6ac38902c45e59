// This file implements row persistence: bulk creation with generated ids,
// listing in position order, and bulk deletion with the cells-then-rows
// cascade issued in chunked IN filters.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// deleteChunkSize caps the number of ids per IN filter to stay well under
// SQLite's bound-parameter limit.
const deleteChunkSize = 50

// CreateRows inserts n new rows after the current last position and returns
// them with generated ids, in order. n = 0 returns an empty slice.
func (b *Backend) CreateRows(workspaceID string, n int) ([]types.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}
	if n <= 0 {
		return []types.Row{}, nil
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM workspaces WHERE workspace_id = ?", workspaceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking workspace: %w", err)
	}

	var maxPos sql.NullInt64
	if err := b.db.QueryRow(
		"SELECT MAX(position) FROM rows WHERE workspace_id = ?", workspaceID,
	).Scan(&maxPos); err != nil {
		return nil, fmt.Errorf("finding row position: %w", err)
	}
	next := 0
	if maxPos.Valid {
		next = int(maxPos.Int64) + 1
	}

	now := time.Now().UTC()

	tx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO rows (row_id, workspace_id, position, created_at) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return nil, fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close()

	out := make([]types.Row, 0, n)
	for i := 0; i < n; i++ {
		row := types.Row{
			RowID:       generateUUID(),
			WorkspaceID: workspaceID,
			Position:    next + i,
			CreatedAt:   now,
		}
		if _, err := stmt.Exec(row.RowID, row.WorkspaceID, row.Position, formatTime(row.CreatedAt)); err != nil {
			return nil, fmt.Errorf("inserting row: %w", err)
		}
		out = append(out, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRows removes the given rows and their cell values, cells first.
// Ids not belonging to the workspace are ignored.
func (b *Backend) DeleteRows(workspaceID string, rowIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if workspaceID == "" {
		return types.ErrInvalidID
	}
	if len(rowIDs) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(rowIDs); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(rowIDs))
		chunk := rowIDs[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		args := make([]any, 0, len(chunk)+1)
		for _, id := range chunk {
			args = append(args, id)
		}

		args = append(args, workspaceID)
		if _, err := tx.Exec(
			"DELETE FROM cells WHERE row_id IN ("+placeholders+") AND row_id IN (SELECT row_id FROM rows WHERE workspace_id = ?)",
			args...,
		); err != nil {
			return fmt.Errorf("deleting row cells: %w", err)
		}

		if _, err := tx.Exec(
			"DELETE FROM rows WHERE row_id IN ("+placeholders+") AND workspace_id = ?", args...,
		); err != nil {
			return fmt.Errorf("deleting rows: %w", err)
		}
	}

	return tx.Commit()
}

// ListRows returns the workspace's rows ordered by position.
func (b *Backend) ListRows(workspaceID string) ([]types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := b.db.Query(
		"SELECT row_id, workspace_id, position, created_at FROM rows WHERE workspace_id = ? ORDER BY position", workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	defer rows.Close()

	var out []types.Row
	for rows.Next() {
		var r types.Row
		var createdAt string
		if err := rows.Scan(&r.RowID, &r.WorkspaceID, &r.Position, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
