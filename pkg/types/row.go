package types

import "time"

// Row is a single record within a workspace. Rows carry no values of their
// own; values live in CellValue keyed by (row, column).
type Row struct {
	RowID       string    // UUID v7, generated on creation.
	WorkspaceID string    // Owning workspace.
	Position    int       // Creation ordering; display order follows this.
	CreatedAt   time.Time // Timestamp of creation.
}
