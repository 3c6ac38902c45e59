package types

import "errors"

// Store is the persistence collaborator for workspaces, columns, rows, and
// cells. Callers attach to a backend, operate, and detach when done.
//
// Contract relied on by the rest of the system: creates return generated ids
// synchronously; UpsertCell is atomic on the (row, column) conflict key;
// deleting a column or rows cascades to dependent cell values.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// CreateWorkspace persists a new workspace and seeds its table type's
	// default columns. Returns the generated workspace id.
	CreateWorkspace(ws *Workspace) (string, error)

	// GetWorkspace retrieves a workspace by id.
	// Returns ErrNotFound if no workspace exists with that id.
	GetWorkspace(id string) (*Workspace, error)

	// ListWorkspaces returns all workspaces ordered by creation time.
	ListWorkspaces() ([]Workspace, error)

	// DeleteWorkspace removes a workspace, cascading to its columns, rows,
	// and cell values.
	DeleteWorkspace(id string) error

	// CreateColumn persists a new column at the next free position.
	// Returns ErrDuplicateFieldKey if the workspace already has a column
	// with the same field key. Returns the generated column id.
	CreateColumn(col *Column) (string, error)

	// UpdateColumn persists changes to an existing column's name, width,
	// prompt, or output type. The field key and position are not changed.
	UpdateColumn(col *Column) error

	// DeleteColumn removes a column and every cell value referencing it,
	// cells first. Returns ErrProtectedColumn for a table type's default
	// columns.
	DeleteColumn(id string) error

	// ListColumns returns the workspace's columns ordered by position.
	ListColumns(workspaceID string) ([]Column, error)

	// CreateRows inserts n new rows after the current last position and
	// returns them with generated ids, in order.
	CreateRows(workspaceID string, n int) ([]Row, error)

	// DeleteRows removes the given rows and their cell values, cells first.
	// Missing ids are ignored.
	DeleteRows(workspaceID string, rowIDs []string) error

	// ListRows returns the workspace's rows ordered by position.
	ListRows(workspaceID string) ([]Row, error)

	// UpsertCell writes a cell value, replacing any existing value at the
	// same (row, column) coordinate.
	UpsertCell(cell *CellValue) error

	// UpsertCells writes a batch of cell values with upsert semantics.
	UpsertCells(cells []CellValue) error

	// CellsForWorkspace returns every cell value belonging to the
	// workspace's rows, paginating internally around any single-request cap.
	CellsForWorkspace(workspaceID string) ([]CellValue, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
)
