// Package session holds the client-side state for one active workspace: an
// in-memory projection of the store (columns, rows, cell values) that every
// mutation updates optimistically, plus the undo/redo ledger for confirmed
// edits.
//
// The cache is keyed by (row, column) identity and never holds two entries
// for the same coordinate. After bulk operations callers Refresh rather
// than folding N optimistic upserts into the cache: batch items complete
// out of order and a partial failure must not leave a stale entry, so one
// authoritative refetch is the simpler reconciliation.
//
// A Session is created at session start and discarded at session end; it is
// passed explicitly to the components that need it.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/gridline/internal/debounce"
	"github.com/mesh-intelligence/gridline/internal/history"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// widthPersistDelay is how long width changes for a column are coalesced
// before the pending store write fires.
const widthPersistDelay = 400 * time.Millisecond

type cellKey struct {
	rowID    string
	columnID string
}

// Session is the explicit application state for one active workspace.
type Session struct {
	mu        sync.RWMutex
	store     types.Store
	workspace *types.Workspace
	columns   []types.Column
	rows      []types.Row
	cells     map[cellKey]types.CellValue
	ledger    *history.Ledger
	widths    *debounce.Debouncer
}

// Open loads the workspace and its full column/row/cell state from the
// store and returns a ready session.
func Open(store types.Store, workspaceID string) (*Session, error) {
	s := &Session{
		store:  store,
		ledger: history.NewLedger(),
		widths: debounce.New(widthPersistDelay),
	}
	ws, err := store.GetWorkspace(workspaceID)
	if err != nil {
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	s.workspace = ws
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases session resources (pending width timers). The store is not
// detached; the session does not own it.
func (s *Session) Close() {
	s.widths.Stop()
}

// Refresh reconciles the cache with the store: the entire cached contents
// are replaced by a freshly fetched snapshot.
func (s *Session) Refresh() error {
	id := s.workspace.WorkspaceID

	columns, err := s.store.ListColumns(id)
	if err != nil {
		return fmt.Errorf("refreshing columns: %w", err)
	}
	rows, err := s.store.ListRows(id)
	if err != nil {
		return fmt.Errorf("refreshing rows: %w", err)
	}
	cells, err := s.store.CellsForWorkspace(id)
	if err != nil {
		return fmt.Errorf("refreshing cells: %w", err)
	}

	cache := make(map[cellKey]types.CellValue, len(cells))
	for _, c := range cells {
		cache[cellKey{c.RowID, c.ColumnID}] = c
	}

	s.mu.Lock()
	s.columns = columns
	s.rows = rows
	s.cells = cache
	s.mu.Unlock()
	return nil
}

// Workspace returns the active workspace.
func (s *Session) Workspace() *types.Workspace {
	return s.workspace
}

// Columns returns the cached columns in position order.
func (s *Session) Columns() []types.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Rows returns the cached rows in display order.
func (s *Session) Rows() []types.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// ColumnByKey finds a cached column by its stable field key.
func (s *Session) ColumnByKey(fieldKey string) (types.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.columns {
		if c.FieldKey == fieldKey {
			return c, true
		}
	}
	return types.Column{}, false
}

// ColumnByID finds a cached column by id.
func (s *Session) ColumnByID(id string) (types.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.columns {
		if c.ColumnID == id {
			return c, true
		}
	}
	return types.Column{}, false
}

// CellValue returns the cached value at a coordinate, "" when absent.
func (s *Session) CellValue(rowID, columnID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells[cellKey{rowID, columnID}].Value
}

// UpsertCell writes a value through the store and then updates the cache.
// If an entry exists at the coordinate its value is replaced in place;
// otherwise one is appended. Safe for concurrent use by batch items, which
// always target distinct coordinates.
func (s *Session) UpsertCell(rowID, columnID, value string) error {
	cell := types.CellValue{RowID: rowID, ColumnID: columnID, Value: value}
	if err := s.store.UpsertCell(&cell); err != nil {
		return err
	}

	s.mu.Lock()
	s.cells[cellKey{rowID, columnID}] = cell
	s.mu.Unlock()
	return nil
}

// SetCell performs a confirmed single-cell edit: the value is written
// through the upsert path and, on success, the edit is recorded on the undo
// ledger (clearing the redo stack). On failure neither the cache nor the
// ledger changes, so the caller can surface the prior value unchanged.
func (s *Session) SetCell(rowID, columnID, value string) error {
	s.mu.RLock()
	old := s.cells[cellKey{rowID, columnID}].Value
	s.mu.RUnlock()

	if err := s.UpsertCell(rowID, columnID, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.ledger.Record(history.Entry{RowID: rowID, ColumnID: columnID, Old: old, New: value})
	s.mu.Unlock()
	return nil
}

// Undo re-applies the most recent edit's old value through the upsert path.
// Returns ok=false with a nil error when there is nothing to undo. On a
// failed re-apply the entry is pushed back onto the undo stack unchanged so
// the user can retry, and the redo stack is untouched.
func (s *Session) Undo() (history.Entry, bool, error) {
	s.mu.Lock()
	e, ok := s.ledger.PopUndo()
	s.mu.Unlock()
	if !ok {
		return history.Entry{}, false, nil
	}

	if err := s.UpsertCell(e.RowID, e.ColumnID, e.Old); err != nil {
		s.mu.Lock()
		s.ledger.PushUndo(e)
		s.mu.Unlock()
		return e, false, err
	}

	s.mu.Lock()
	s.ledger.PushRedo(e)
	s.mu.Unlock()
	return e, true, nil
}

// Redo re-applies the most recently undone edit's new value. Symmetric with
// Undo: push back onto the redo stack on failure, move to the undo stack on
// success.
func (s *Session) Redo() (history.Entry, bool, error) {
	s.mu.Lock()
	e, ok := s.ledger.PopRedo()
	s.mu.Unlock()
	if !ok {
		return history.Entry{}, false, nil
	}

	if err := s.UpsertCell(e.RowID, e.ColumnID, e.New); err != nil {
		s.mu.Lock()
		s.ledger.PushRedo(e)
		s.mu.Unlock()
		return e, false, err
	}

	s.mu.Lock()
	s.ledger.PushUndo(e)
	s.mu.Unlock()
	return e, true, nil
}

// UndoDepth returns the number of undoable edits. The ledger has no
// capacity bound; it lives and dies with the session.
func (s *Session) UndoDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.UndoLen()
}

// RedoDepth returns the number of redoable edits.
func (s *Session) RedoDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.RedoLen()
}

// Project produces the flattened grid view: one GridRow per row in display
// order, with every cached cell merged in. O(rows + cells).
func (s *Session) Project() []types.GridRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byRow := make(map[string]map[string]string, len(s.rows))
	for _, r := range s.rows {
		byRow[r.RowID] = make(map[string]string)
	}
	for k, c := range s.cells {
		if m, ok := byRow[k.rowID]; ok {
			m[k.columnID] = c.Value
		}
	}

	out := make([]types.GridRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, types.GridRow{RowID: r.RowID, Cells: byRow[r.RowID]})
	}
	return out
}

// AddRows creates n rows in the store and appends them to the cache.
func (s *Session) AddRows(n int) ([]types.Row, error) {
	rows, err := s.store.CreateRows(s.workspace.WorkspaceID, n)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.rows = append(s.rows, rows...)
	s.mu.Unlock()
	return rows, nil
}

// DeleteRows removes rows (and their cells) from the store and the cache.
func (s *Session) DeleteRows(rowIDs []string) error {
	if err := s.store.DeleteRows(s.workspace.WorkspaceID, rowIDs); err != nil {
		return err
	}

	drop := make(map[string]bool, len(rowIDs))
	for _, id := range rowIDs {
		drop[id] = true
	}

	s.mu.Lock()
	kept := s.rows[:0]
	for _, r := range s.rows {
		if !drop[r.RowID] {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	for k := range s.cells {
		if drop[k.rowID] {
			delete(s.cells, k)
		}
	}
	s.mu.Unlock()
	return nil
}

// AddColumn creates a column in the store and appends it to the cache.
func (s *Session) AddColumn(col *types.Column) (types.Column, error) {
	col.WorkspaceID = s.workspace.WorkspaceID
	if _, err := s.store.CreateColumn(col); err != nil {
		return types.Column{}, err
	}
	s.mu.Lock()
	s.columns = append(s.columns, *col)
	s.mu.Unlock()
	return *col, nil
}

// DeleteColumn removes a column (and its cells) from the store and cache.
func (s *Session) DeleteColumn(columnID string) error {
	if err := s.store.DeleteColumn(columnID); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.columns[:0]
	for _, c := range s.columns {
		if c.ColumnID != columnID {
			kept = append(kept, c)
		}
	}
	s.columns = kept
	for k := range s.cells {
		if k.columnID == columnID {
			delete(s.cells, k)
		}
	}
	s.mu.Unlock()
	return nil
}

// SetColumnWidth updates the cached width immediately and schedules the
// store write behind the per-column debouncer, cancelling any pending write
// for the same column only.
func (s *Session) SetColumnWidth(columnID string, width int) {
	s.mu.Lock()
	var snapshot types.Column
	found := false
	for i := range s.columns {
		if s.columns[i].ColumnID == columnID {
			s.columns[i].Width = width
			snapshot = s.columns[i]
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return
	}

	s.widths.Trigger(columnID, func() {
		_ = s.store.UpdateColumn(&snapshot)
	})
}

// FlushColumnWidth cancels any pending debounced write for the column and
// persists its cached width now. Used when the session ends before the
// debounce delay elapses.
func (s *Session) FlushColumnWidth(columnID string) error {
	s.widths.Flush(columnID)

	s.mu.RLock()
	var snapshot types.Column
	found := false
	for i := range s.columns {
		if s.columns[i].ColumnID == columnID {
			snapshot = s.columns[i]
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return fmt.Errorf("column %s: %w", columnID, types.ErrNotFound)
	}

	return s.store.UpdateColumn(&snapshot)
}

// Store exposes the underlying store for operations the session does not
// wrap (import resolvers create columns through it).
func (s *Session) Store() types.Store {
	return s.store
}
