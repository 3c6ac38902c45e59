// This file implements cell value persistence. Writes use
// INSERT ... ON CONFLICT(row_id, column_id) DO UPDATE so that at most one
// cell exists per coordinate and repeated writes replace in place.
package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// cellPageSize is the page size used when reading a workspace's full cell
// set. Reads loop with LIMIT/OFFSET so callers never see a truncated set.
const cellPageSize = 1000

const upsertCellSQL = `INSERT INTO cells (cell_id, row_id, column_id, value) VALUES (?, ?, ?, ?)
ON CONFLICT(row_id, column_id) DO UPDATE SET value = excluded.value`

// UpsertCell writes a cell value, replacing any existing value at the same
// (row, column) coordinate.
func (b *Backend) UpsertCell(cell *types.CellValue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if cell == nil {
		return types.ErrInvalidData
	}
	if cell.RowID == "" || cell.ColumnID == "" {
		return types.ErrInvalidID
	}
	if cell.CellID == "" {
		cell.CellID = generateUUID()
	}

	if _, err := b.db.Exec(upsertCellSQL, cell.CellID, cell.RowID, cell.ColumnID, cell.Value); err != nil {
		return fmt.Errorf("upserting cell: %w", err)
	}
	return nil
}

// UpsertCells writes a batch of cell values with upsert semantics inside a
// single transaction.
func (b *Backend) UpsertCells(cells []types.CellValue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.requireAttached(); err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertCellSQL)
	if err != nil {
		return fmt.Errorf("preparing cell upsert: %w", err)
	}
	defer stmt.Close()

	for i := range cells {
		c := &cells[i]
		if c.RowID == "" || c.ColumnID == "" {
			return types.ErrInvalidID
		}
		if c.CellID == "" {
			c.CellID = generateUUID()
		}
		if _, err := stmt.Exec(c.CellID, c.RowID, c.ColumnID, c.Value); err != nil {
			return fmt.Errorf("upserting cell (%s, %s): %w", c.RowID, c.ColumnID, err)
		}
	}

	return tx.Commit()
}

// CellsForWorkspace returns every cell value belonging to the workspace's
// rows. Pages internally so a large workspace never hits a single-request
// row cap.
func (b *Backend) CellsForWorkspace(workspaceID string) ([]types.CellValue, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.requireAttached(); err != nil {
		return nil, err
	}
	if workspaceID == "" {
		return nil, types.ErrInvalidID
	}

	var out []types.CellValue
	for offset := 0; ; offset += cellPageSize {
		page, err := b.cellPage(workspaceID, cellPageSize, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < cellPageSize {
			return out, nil
		}
	}
}

// cellPage reads one LIMIT/OFFSET page of a workspace's cells.
// The caller must hold b.mu.
func (b *Backend) cellPage(workspaceID string, limit, offset int) ([]types.CellValue, error) {
	rows, err := b.db.Query(
		`SELECT c.cell_id, c.row_id, c.column_id, c.value
         FROM cells c JOIN rows r ON c.row_id = r.row_id
         WHERE r.workspace_id = ?
         ORDER BY c.cell_id LIMIT ? OFFSET ?`,
		workspaceID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cells: %w", err)
	}
	defer rows.Close()

	var page []types.CellValue
	for rows.Next() {
		var c types.CellValue
		if err := rows.Scan(&c.CellID, &c.RowID, &c.ColumnID, &c.Value); err != nil {
			return nil, fmt.Errorf("scanning cell: %w", err)
		}
		page = append(page, c)
	}
	return page, rows.Err()
}
