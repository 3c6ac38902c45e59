// Integration tests for undo and redo through the session: confirmed
// edits, inverse application, and redo invalidation.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridline/internal/session"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

func TestUndoRedoThroughSession(t *testing.T) {
	s := newTestSession(t)
	rows, err := s.AddRows(1)
	require.NoError(t, err)
	nameCol, _ := s.ColumnByKey("name")
	rowID := rows[0].RowID

	require.NoError(t, s.SetCell(rowID, nameCol.ColumnID, "Ada"))
	require.NoError(t, s.SetCell(rowID, nameCol.ColumnID, "Ada Lovelace"))
	assert.Equal(t, 2, s.UndoDepth())

	// Undo steps back through the edits in LIFO order.
	entry, ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", entry.New)
	assert.Equal(t, "Ada", s.CellValue(rowID, nameCol.ColumnID))

	entry, ok, err = s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", entry.Old, "undo of the first edit restores empty")
	assert.Empty(t, s.CellValue(rowID, nameCol.ColumnID))

	// Nothing left to undo.
	_, ok, err = s.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	// Redo replays in reverse order.
	entry, ok, err = s.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada", entry.New)

	entry, ok, err = s.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", s.CellValue(rowID, nameCol.ColumnID))
}

func TestRedoClearedByNewEdit(t *testing.T) {
	s := newTestSession(t)
	rows, err := s.AddRows(1)
	require.NoError(t, err)
	nameCol, _ := s.ColumnByKey("name")
	rowID := rows[0].RowID

	require.NoError(t, s.SetCell(rowID, nameCol.ColumnID, "Ada"))
	_, ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, s.RedoDepth())

	// A fresh confirmed edit invalidates the redo branch.
	require.NoError(t, s.SetCell(rowID, nameCol.ColumnID, "Grace"))
	assert.Zero(t, s.RedoDepth())

	_, ok, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndoSurvivesSessionStateChanges(t *testing.T) {
	s := newTestSession(t)
	rows, err := s.AddRows(2)
	require.NoError(t, err)
	nameCol, _ := s.ColumnByKey("name")

	require.NoError(t, s.SetCell(rows[0].RowID, nameCol.ColumnID, "Ada"))
	require.NoError(t, s.SetCell(rows[1].RowID, nameCol.ColumnID, "Grace"))

	// Refreshing the cache does not disturb the ledger.
	require.NoError(t, s.Refresh())
	assert.Equal(t, 2, s.UndoDepth())

	entry, ok, err := s.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows[1].RowID, entry.RowID)
	assert.Empty(t, s.CellValue(rows[1].RowID, nameCol.ColumnID))
	assert.Equal(t, "Ada", s.CellValue(rows[0].RowID, nameCol.ColumnID))
}

func TestSessionProjection(t *testing.T) {
	s := newTestSession(t)
	rows, err := s.AddRows(2)
	require.NoError(t, err)
	nameCol, _ := s.ColumnByKey("name")
	emailCol, _ := s.ColumnByKey(types.FieldKeyEmail)

	require.NoError(t, s.SetCell(rows[0].RowID, nameCol.ColumnID, "Ada"))
	require.NoError(t, s.SetCell(rows[0].RowID, emailCol.ColumnID, "ada@example.com"))
	require.NoError(t, s.SetCell(rows[1].RowID, nameCol.ColumnID, "Grace"))

	grid := s.Project()
	require.Len(t, grid, 2)

	assert.Equal(t, rows[0].RowID, grid[0].RowID)
	assert.Equal(t, "Ada", grid[0].Value(nameCol.ColumnID))
	assert.Equal(t, "ada@example.com", grid[0].Value(emailCol.ColumnID))
	assert.Empty(t, grid[1].Value(emailCol.ColumnID))
}

// reopening a session on the same store must rebuild state from scratch,
// with an empty ledger.
func TestSessionReopen(t *testing.T) {
	s := newTestSession(t)
	rows, err := s.AddRows(1)
	require.NoError(t, err)
	nameCol, _ := s.ColumnByKey("name")
	require.NoError(t, s.SetCell(rows[0].RowID, nameCol.ColumnID, "Ada"))

	s2, err := session.Open(s.Store(), s.Workspace().WorkspaceID)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, "Ada", s2.CellValue(rows[0].RowID, nameCol.ColumnID))
	assert.Zero(t, s2.UndoDepth(), "the ledger is per session")
}
