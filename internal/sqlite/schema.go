// Package sqlite implements the SQLite storage backend for Gridline.
package sqlite

// Schema DDL for all tables. The cells table carries the (row_id, column_id)
// uniqueness constraint that upsert-on-conflict writes rely on.
const (
	createWorkspaces = `CREATE TABLE IF NOT EXISTS workspaces (
    workspace_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    table_type TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    column_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    name TEXT NOT NULL,
    field_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    width INTEGER NOT NULL,
    is_ai INTEGER NOT NULL DEFAULT 0,
    prompt TEXT,
    output_type TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (workspace_id) REFERENCES workspaces(workspace_id)
);`

	createRows = `CREATE TABLE IF NOT EXISTS rows (
    row_id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (workspace_id) REFERENCES workspaces(workspace_id)
);`

	createCells = `CREATE TABLE IF NOT EXISTS cells (
    cell_id TEXT PRIMARY KEY,
    row_id TEXT NOT NULL,
    column_id TEXT NOT NULL,
    value TEXT NOT NULL,
    FOREIGN KEY (row_id) REFERENCES rows(row_id),
    FOREIGN KEY (column_id) REFERENCES columns(column_id)
);`
)

// Index DDL for common queries.
const (
	idxColumnsWorkspace = `CREATE INDEX IF NOT EXISTS idx_columns_workspace ON columns(workspace_id, position);`
	idxColumnsFieldKey  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_columns_field_key ON columns(workspace_id, field_key);`
	idxRowsWorkspace    = `CREATE INDEX IF NOT EXISTS idx_rows_workspace ON rows(workspace_id, position);`
	idxCellsCoordinate  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_cells_coordinate ON cells(row_id, column_id);`
	idxCellsColumn      = `CREATE INDEX IF NOT EXISTS idx_cells_column ON cells(column_id);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createWorkspaces,
	createColumns,
	createRows,
	createCells,
	idxColumnsWorkspace,
	idxColumnsFieldKey,
	idxRowsWorkspace,
	idxCellsCoordinate,
	idxCellsColumn,
}
