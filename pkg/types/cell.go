package types

import "strings"

// CellValue is the scalar value at a (row, column) coordinate. At most one
// CellValue exists per coordinate; backends enforce this with an
// upsert-on-conflict write so repeated writes replace rather than duplicate.
// Absence of a CellValue means "empty", which IsBlank treats the same as
// an explicit empty string.
type CellValue struct {
	CellID   string // UUID v7, generated on first write.
	RowID    string
	ColumnID string
	Value    string
}

// GridRow is the derived, flattened view of one row: column id → value.
// It is reconstructed from the CellValue set on every refresh and is what
// batch operations and display read against. Not persisted.
type GridRow struct {
	RowID string
	Cells map[string]string
}

// Value returns the cell value for a column id, or "" when absent.
func (g GridRow) Value(columnID string) string {
	return g.Cells[columnID]
}

// IsBlank reports whether a value counts as "has no value". Used uniformly
// wherever emptiness is tested so that absent cells, empty strings, and
// whitespace-only strings are treated alike.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
