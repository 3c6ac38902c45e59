// This file implements workspace persistence: creation (with default column
// seeding), retrieval, listing, and cascading deletion.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// CreateWorkspace persists a new workspace and seeds the default columns
// for its table type. Returns the generated workspace id.
func (b *Backend) CreateWorkspace(ws *types.Workspace) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return "", err
	}
	if ws == nil {
		return "", types.ErrInvalidData
	}
	if err := ws.Validate(); err != nil {
		return "", err
	}

	ws.WorkspaceID = generateUUID()
	ws.CreatedAt = time.Now().UTC()

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO workspaces (workspace_id, name, table_type, created_at) VALUES (?, ?, ?, ?)",
		ws.WorkspaceID, ws.Name, ws.TableType, formatTime(ws.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting workspace: %w", err)
	}

	// Seed the table type's default columns in position order.
	for i, dc := range types.DefaultColumns(ws.TableType) {
		col := types.Column{
			ColumnID:    generateUUID(),
			WorkspaceID: ws.WorkspaceID,
			Name:        dc.Name,
			FieldKey:    types.FieldKeyFor(dc.Name),
			Position:    i,
			Width:       dc.Width,
			CreatedAt:   ws.CreatedAt,
		}
		if err := insertColumnTx(tx, &col); err != nil {
			return "", fmt.Errorf("seeding column %q: %w", dc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing workspace: %w", err)
	}
	return ws.WorkspaceID, nil
}

// GetWorkspace retrieves a workspace by id.
func (b *Backend) GetWorkspace(id string) (*types.Workspace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := b.db.QueryRow(
		"SELECT workspace_id, name, table_type, created_at FROM workspaces WHERE workspace_id = ?", id,
	)
	var ws types.Workspace
	var createdAt string
	if err := row.Scan(&ws.WorkspaceID, &ws.Name, &ws.TableType, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting workspace %s: %w", id, err)
	}
	ws.CreatedAt = parseTime(createdAt)
	return &ws, nil
}

// ListWorkspaces returns all workspaces ordered by creation time.
func (b *Backend) ListWorkspaces() ([]types.Workspace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT workspace_id, name, table_type, created_at FROM workspaces ORDER BY created_at, workspace_id",
	)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []types.Workspace
	for rows.Next() {
		var ws types.Workspace
		var createdAt string
		if err := rows.Scan(&ws.WorkspaceID, &ws.Name, &ws.TableType, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		ws.CreatedAt = parseTime(createdAt)
		out = append(out, ws)
	}
	return out, rows.Err()
}

// DeleteWorkspace removes a workspace, cascading to its cells, rows, and
// columns in dependency order.
func (b *Backend) DeleteWorkspace(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM workspaces WHERE workspace_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking workspace existence: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Cells first, then rows and columns, then the workspace itself.
	if _, err := tx.Exec(
		"DELETE FROM cells WHERE row_id IN (SELECT row_id FROM rows WHERE workspace_id = ?)", id,
	); err != nil {
		return fmt.Errorf("deleting workspace cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM rows WHERE workspace_id = ?", id); err != nil {
		return fmt.Errorf("deleting workspace rows: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM columns WHERE workspace_id = ?", id); err != nil {
		return fmt.Errorf("deleting workspace columns: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM workspaces WHERE workspace_id = ?", id); err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}

	return tx.Commit()
}
