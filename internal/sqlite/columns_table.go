// This file implements column persistence: creation at the next free
// position, updates, listing in position order, and deletion with the
// cells-then-column cascade. Default columns of a workspace's table type
// are protected from deletion.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// insertColumnTx inserts a column inside an existing transaction. The
// column must already carry an id, field key, and position.
func insertColumnTx(tx *sql.Tx, col *types.Column) error {
	_, err := tx.Exec(
		`INSERT INTO columns (column_id, workspace_id, name, field_key, position, width, is_ai, prompt, output_type, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		col.ColumnID, col.WorkspaceID, col.Name, col.FieldKey, col.Position,
		col.Width, boolToInt(col.IsAI), col.Prompt, col.OutputType, formatTime(col.CreatedAt),
	)
	return err
}

// CreateColumn persists a new column at the next free position in its
// workspace. Returns ErrDuplicateFieldKey when the workspace already has a
// column with the same field key.
func (b *Backend) CreateColumn(col *types.Column) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return "", err
	}
	if col == nil {
		return "", types.ErrInvalidData
	}
	if err := col.Validate(); err != nil {
		return "", err
	}
	if col.WorkspaceID == "" {
		return "", types.ErrInvalidID
	}

	col.FieldKey = types.FieldKeyFor(col.Name)

	var dup int
	err := b.db.QueryRow(
		"SELECT 1 FROM columns WHERE workspace_id = ? AND field_key = ?",
		col.WorkspaceID, col.FieldKey,
	).Scan(&dup)
	if err == nil {
		return "", types.ErrDuplicateFieldKey
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking field key: %w", err)
	}

	// Next free position. Positions are dense but gaps from deletions are fine.
	var maxPos sql.NullInt64
	err = b.db.QueryRow(
		"SELECT MAX(position) FROM columns WHERE workspace_id = ?", col.WorkspaceID,
	).Scan(&maxPos)
	if err != nil {
		return "", fmt.Errorf("finding column position: %w", err)
	}
	col.Position = 0
	if maxPos.Valid {
		col.Position = int(maxPos.Int64) + 1
	}

	col.ColumnID = generateUUID()
	col.CreatedAt = time.Now().UTC()
	if col.Width == 0 {
		col.Width = 160
	}

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertColumnTx(tx, col); err != nil {
		return "", fmt.Errorf("inserting column: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return col.ColumnID, nil
}

// UpdateColumn persists changes to an existing column's name, width, AI
// flag, prompt, and output type. Field key and position are immutable.
func (b *Backend) UpdateColumn(col *types.Column) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if col == nil {
		return types.ErrInvalidData
	}
	if col.ColumnID == "" {
		return types.ErrInvalidID
	}
	if err := col.Validate(); err != nil {
		return err
	}

	res, err := b.db.Exec(
		"UPDATE columns SET name = ?, width = ?, is_ai = ?, prompt = ?, output_type = ? WHERE column_id = ?",
		col.Name, col.Width, boolToInt(col.IsAI), col.Prompt, col.OutputType, col.ColumnID,
	)
	if err != nil {
		return fmt.Errorf("updating column: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteColumn removes a column and every cell value referencing it, cells
// first. Returns ErrProtectedColumn for a default column of the workspace's
// table type.
func (b *Backend) DeleteColumn(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	var workspaceID, fieldKey string
	err := b.db.QueryRow(
		"SELECT workspace_id, field_key FROM columns WHERE column_id = ?", id,
	).Scan(&workspaceID, &fieldKey)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting column: %w", err)
	}

	var tableType string
	if err := b.db.QueryRow(
		"SELECT table_type FROM workspaces WHERE workspace_id = ?", workspaceID,
	).Scan(&tableType); err != nil {
		return fmt.Errorf("getting workspace: %w", err)
	}
	if types.IsProtectedKey(tableType, fieldKey) {
		return types.ErrProtectedColumn
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cells WHERE column_id = ?", id); err != nil {
		return fmt.Errorf("deleting column cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM columns WHERE column_id = ?", id); err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	return tx.Commit()
}

// ListColumns returns the workspace's columns ordered by position.
func (b *Backend) ListColumns(workspaceID string) ([]types.Column, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	rows, err := b.db.Query(
		`SELECT column_id, workspace_id, name, field_key, position, width, is_ai,
                COALESCE(prompt, ''), COALESCE(output_type, ''), created_at
         FROM columns WHERE workspace_id = ? ORDER BY position`, workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	var out []types.Column
	for rows.Next() {
		var col types.Column
		var isAI int
		var createdAt string
		if err := rows.Scan(
			&col.ColumnID, &col.WorkspaceID, &col.Name, &col.FieldKey,
			&col.Position, &col.Width, &isAI, &col.Prompt, &col.OutputType, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		col.IsAI = isAI != 0
		col.CreatedAt = parseTime(createdAt)
		out = append(out, col)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
