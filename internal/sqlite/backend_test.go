// Tests for the SQLite backend: lifecycle, seeding, cascades, and the
// upsert-on-conflict cell write.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

func attachedBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func newWorkspace(t *testing.T, b *Backend, tableType string) *types.Workspace {
	t.Helper()
	ws := &types.Workspace{Name: "Leads", TableType: tableType}
	if _, err := b.CreateWorkspace(ws); err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	return ws
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, dbFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("gridline.db not created")
	}

	// Verify double attach fails
	if err := b.Attach(config); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_DetachIdempotent(t *testing.T) {
	b := attachedBackend(t)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("second Detach failed: %v", err)
	}

	if _, err := b.ListWorkspaces(); err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_DataPersistsAcrossAttach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	ws := &types.Workspace{Name: "Leads", TableType: types.TableTypePeople}
	id, err := b.CreateWorkspace(ws)
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	b.Detach()

	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()

	got, err := b2.GetWorkspace(id)
	if err != nil {
		t.Fatalf("GetWorkspace after re-attach failed: %v", err)
	}
	if got.Name != "Leads" {
		t.Errorf("workspace name = %q, want Leads", got.Name)
	}
}

func TestCreateWorkspace_SeedsDefaultColumns(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)

	cols, err := b.ListColumns(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("ListColumns failed: %v", err)
	}

	defaults := types.DefaultColumns(types.TableTypePeople)
	if len(cols) != len(defaults) {
		t.Fatalf("seeded %d columns, want %d", len(cols), len(defaults))
	}
	for i, dc := range defaults {
		if cols[i].Name != dc.Name {
			t.Errorf("column %d = %q, want %q", i, cols[i].Name, dc.Name)
		}
		if cols[i].Position != i {
			t.Errorf("column %q position = %d, want %d", cols[i].Name, cols[i].Position, i)
		}
		if cols[i].FieldKey != types.FieldKeyFor(dc.Name) {
			t.Errorf("column %q field key = %q", cols[i].Name, cols[i].FieldKey)
		}
	}
}

func TestCreateColumn_DuplicateFieldKey(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)

	// "E-Mail" is distinct from the seeded "Email" (e_mail vs email).
	col := &types.Column{WorkspaceID: ws.WorkspaceID, Name: "E-Mail"}
	if _, err := b.CreateColumn(col); err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	dup := &types.Column{WorkspaceID: ws.WorkspaceID, Name: "e mail"}
	if _, err := b.CreateColumn(dup); err != types.ErrDuplicateFieldKey {
		t.Errorf("expected ErrDuplicateFieldKey, got %v", err)
	}

	same := &types.Column{WorkspaceID: ws.WorkspaceID, Name: "Email"}
	if _, err := b.CreateColumn(same); err != types.ErrDuplicateFieldKey {
		t.Errorf("expected ErrDuplicateFieldKey for seeded key, got %v", err)
	}
}

func TestDeleteColumn_Protected(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)

	cols, _ := b.ListColumns(ws.WorkspaceID)
	var emailID string
	for _, c := range cols {
		if c.FieldKey == types.FieldKeyEmail {
			emailID = c.ColumnID
		}
	}
	if emailID == "" {
		t.Fatal("no seeded email column")
	}

	if err := b.DeleteColumn(emailID); err != types.ErrProtectedColumn {
		t.Errorf("expected ErrProtectedColumn, got %v", err)
	}
}

func TestDeleteColumn_CascadesCells(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)

	col := &types.Column{WorkspaceID: ws.WorkspaceID, Name: "Notes"}
	colID, err := b.CreateColumn(col)
	if err != nil {
		t.Fatalf("CreateColumn failed: %v", err)
	}

	rows, err := b.CreateRows(ws.WorkspaceID, 3)
	if err != nil {
		t.Fatalf("CreateRows failed: %v", err)
	}
	for _, r := range rows {
		if err := b.UpsertCell(&types.CellValue{RowID: r.RowID, ColumnID: colID, Value: "x"}); err != nil {
			t.Fatalf("UpsertCell failed: %v", err)
		}
	}

	if err := b.DeleteColumn(colID); err != nil {
		t.Fatalf("DeleteColumn failed: %v", err)
	}

	cells, err := b.CellsForWorkspace(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("CellsForWorkspace failed: %v", err)
	}
	for _, c := range cells {
		if c.ColumnID == colID {
			t.Errorf("orphaned cell %s for deleted column", c.CellID)
		}
	}
}

func TestCreateRows_OrderAndIDs(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)

	first, err := b.CreateRows(ws.WorkspaceID, 2)
	if err != nil {
		t.Fatalf("CreateRows failed: %v", err)
	}
	second, err := b.CreateRows(ws.WorkspaceID, 2)
	if err != nil {
		t.Fatalf("CreateRows failed: %v", err)
	}

	all, err := b.ListRows(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("ListRows failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d rows, want 4", len(all))
	}
	for i, r := range all {
		if r.Position != i {
			t.Errorf("row %d position = %d", i, r.Position)
		}
		if r.RowID == "" {
			t.Error("row missing generated id")
		}
	}
	if all[0].RowID != first[0].RowID || all[3].RowID != second[1].RowID {
		t.Error("rows not in creation order")
	}

	empty, err := b.CreateRows(ws.WorkspaceID, 0)
	if err != nil || len(empty) != 0 {
		t.Errorf("CreateRows(0) = %v, %v", empty, err)
	}
}

func TestDeleteRows_CascadesCells(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)
	cols, _ := b.ListColumns(ws.WorkspaceID)

	rows, _ := b.CreateRows(ws.WorkspaceID, 3)
	for _, r := range rows {
		b.UpsertCell(&types.CellValue{RowID: r.RowID, ColumnID: cols[0].ColumnID, Value: "v"})
	}

	if err := b.DeleteRows(ws.WorkspaceID, []string{rows[0].RowID, rows[2].RowID}); err != nil {
		t.Fatalf("DeleteRows failed: %v", err)
	}

	remaining, _ := b.ListRows(ws.WorkspaceID)
	if len(remaining) != 1 || remaining[0].RowID != rows[1].RowID {
		t.Fatalf("unexpected remaining rows: %v", remaining)
	}

	cells, _ := b.CellsForWorkspace(ws.WorkspaceID)
	if len(cells) != 1 {
		t.Fatalf("got %d cells, want 1", len(cells))
	}
	if cells[0].RowID != rows[1].RowID {
		t.Error("cell for deleted row survived")
	}
}

func TestUpsertCell_Idempotent(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)
	cols, _ := b.ListColumns(ws.WorkspaceID)
	rows, _ := b.CreateRows(ws.WorkspaceID, 1)

	coord := types.CellValue{RowID: rows[0].RowID, ColumnID: cols[0].ColumnID, Value: "Ada"}
	if err := b.UpsertCell(&coord); err != nil {
		t.Fatalf("UpsertCell failed: %v", err)
	}

	again := types.CellValue{RowID: rows[0].RowID, ColumnID: cols[0].ColumnID, Value: "Ada"}
	if err := b.UpsertCell(&again); err != nil {
		t.Fatalf("second UpsertCell failed: %v", err)
	}

	replaced := types.CellValue{RowID: rows[0].RowID, ColumnID: cols[0].ColumnID, Value: "Grace"}
	if err := b.UpsertCell(&replaced); err != nil {
		t.Fatalf("third UpsertCell failed: %v", err)
	}

	cells, _ := b.CellsForWorkspace(ws.WorkspaceID)
	if len(cells) != 1 {
		t.Fatalf("got %d cells at one coordinate, want 1", len(cells))
	}
	if cells[0].Value != "Grace" {
		t.Errorf("cell value = %q, want Grace", cells[0].Value)
	}
}

func TestUpsertCells_Batch(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)
	cols, _ := b.ListColumns(ws.WorkspaceID)
	rows, _ := b.CreateRows(ws.WorkspaceID, 60)

	batch := make([]types.CellValue, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, types.CellValue{RowID: r.RowID, ColumnID: cols[0].ColumnID, Value: "v"})
	}
	if err := b.UpsertCells(batch); err != nil {
		t.Fatalf("UpsertCells failed: %v", err)
	}

	cells, _ := b.CellsForWorkspace(ws.WorkspaceID)
	if len(cells) != 60 {
		t.Fatalf("got %d cells, want 60", len(cells))
	}

	if err := b.UpsertCells(nil); err != nil {
		t.Errorf("empty batch: %v", err)
	}
}

func TestCellsForWorkspace_PaginatesPastPageSize(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypePeople)
	cols, _ := b.ListColumns(ws.WorkspaceID)
	rows, err := b.CreateRows(ws.WorkspaceID, cellPageSize/2+100)
	if err != nil {
		t.Fatalf("CreateRows failed: %v", err)
	}

	// Two cells per row pushes the total past one page.
	batch := make([]types.CellValue, 0, 2*len(rows))
	for _, r := range rows {
		batch = append(batch,
			types.CellValue{RowID: r.RowID, ColumnID: cols[0].ColumnID, Value: "a"},
			types.CellValue{RowID: r.RowID, ColumnID: cols[1].ColumnID, Value: "b"},
		)
	}
	if err := b.UpsertCells(batch); err != nil {
		t.Fatalf("UpsertCells failed: %v", err)
	}

	cells, err := b.CellsForWorkspace(ws.WorkspaceID)
	if err != nil {
		t.Fatalf("CellsForWorkspace failed: %v", err)
	}
	if len(cells) != len(batch) {
		t.Fatalf("got %d cells, want %d", len(cells), len(batch))
	}
	seen := make(map[string]bool, len(cells))
	for _, c := range cells {
		key := c.RowID + "|" + c.ColumnID
		if seen[key] {
			t.Fatalf("coordinate %s returned twice across pages", key)
		}
		seen[key] = true
	}
}

func TestDeleteWorkspace_Cascades(t *testing.T) {
	b := attachedBackend(t)
	ws := newWorkspace(t, b, types.TableTypeCompanies)
	cols, _ := b.ListColumns(ws.WorkspaceID)
	rows, _ := b.CreateRows(ws.WorkspaceID, 2)
	b.UpsertCell(&types.CellValue{RowID: rows[0].RowID, ColumnID: cols[0].ColumnID, Value: "Acme"})

	if err := b.DeleteWorkspace(ws.WorkspaceID); err != nil {
		t.Fatalf("DeleteWorkspace failed: %v", err)
	}

	if _, err := b.GetWorkspace(ws.WorkspaceID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
