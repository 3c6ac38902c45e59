// Package history implements the undo/redo ledger for confirmed cell edits.
//
// The ledger is two LIFO stacks of immutable entries. A confirmed edit
// pushes onto the undo stack and clears the redo stack (linear history:
// redoing a stale future after a new edit is disallowed). Undo and redo
// move entries between the stacks; entries are never mutated. The caller
// re-applies values through its own upsert path and reports the outcome
// back, so a failed re-apply leaves the entry on its origin stack and the
// action retryable.
package history

// Entry records one confirmed cell edit.
type Entry struct {
	RowID    string
	ColumnID string
	Old      string // Value before the edit; "" when the cell was absent.
	New      string // Value after the edit.
}

// Ledger holds the undo and redo stacks. Not safe for concurrent use; the
// owning session serializes access.
type Ledger struct {
	undo []Entry
	redo []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record pushes a confirmed edit onto the undo stack and clears the redo
// stack.
func (l *Ledger) Record(e Entry) {
	l.undo = append(l.undo, e)
	l.redo = nil
}

// PopUndo removes and returns the most recent undo entry.
// Returns false when the undo stack is empty.
func (l *Ledger) PopUndo() (Entry, bool) {
	if len(l.undo) == 0 {
		return Entry{}, false
	}
	e := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	return e, true
}

// PopRedo removes and returns the most recent redo entry.
// Returns false when the redo stack is empty.
func (l *Ledger) PopRedo() (Entry, bool) {
	if len(l.redo) == 0 {
		return Entry{}, false
	}
	e := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	return e, true
}

// PushUndo returns an entry to the undo stack. Used after a successful redo,
// or to restore an entry whose undo re-apply failed.
func (l *Ledger) PushUndo(e Entry) {
	l.undo = append(l.undo, e)
}

// PushRedo returns an entry to the redo stack. Used after a successful undo,
// or to restore an entry whose redo re-apply failed.
func (l *Ledger) PushRedo(e Entry) {
	l.redo = append(l.redo, e)
}

// UndoLen returns the undo stack depth.
func (l *Ledger) UndoLen() int { return len(l.undo) }

// RedoLen returns the redo stack depth.
func (l *Ledger) RedoLen() int { return len(l.redo) }

// PeekUndo returns the top undo entry without removing it.
func (l *Ledger) PeekUndo() (Entry, bool) {
	if len(l.undo) == 0 {
		return Entry{}, false
	}
	return l.undo[len(l.undo)-1], true
}

// PeekRedo returns the top redo entry without removing it.
func (l *Ledger) PeekRedo() (Entry, bool) {
	if len(l.redo) == 0 {
		return Entry{}, false
	}
	return l.redo[len(l.redo)-1], true
}
