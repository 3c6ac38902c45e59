// Package importer applies external datasets (CSV sheets, contact lists)
// against a workspace: field labels are mapped onto columns once, rows are
// bulk-created, and cell values are written in fixed-size concurrent
// batches with per-item failure isolation. After the batch the session is
// reconciled from the store rather than folded together from optimistic
// writes.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/mesh-intelligence/gridline/internal/batch"
	"github.com/mesh-intelligence/gridline/internal/contacts"
	"github.com/mesh-intelligence/gridline/internal/csvio"
	"github.com/mesh-intelligence/gridline/internal/mapping"
	"github.com/mesh-intelligence/gridline/internal/session"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// Summary reports an import outcome. Failed counts cell writes that did
// not land; their coordinates are simply absent.
type Summary struct {
	Rows   int // Rows created.
	Cells  int // Cell values written.
	Failed int // Cell writes that failed.
}

// Options tunes one import run.
type Options struct {
	// Decisions overrides the automatic mapping. When nil, every header is
	// mapped with mapping.Map against the session's current columns.
	// Callers surface the automatic decisions for review and pass the
	// (possibly edited) set back here.
	Decisions []mapping.Decision

	// Progress receives cumulative cell-write progress per batch group.
	Progress batch.Progress
}

// ImportCSV parses CSV from r and imports it. A parse failure is fatal;
// the import does not start.
func ImportCSV(ctx context.Context, s *session.Session, r io.Reader, opts Options) (Summary, error) {
	sheet, err := csvio.Parse(r)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing CSV: %w", err)
	}
	return ImportRecords(ctx, s, sheet.Headers, sheet.Records, opts)
}

// ImportContacts fetches a contact list and imports it. Headers are the
// union of field labels in first-appearance order.
func ImportContacts(ctx context.Context, s *session.Session, src contacts.Source, listID string, opts Options) (Summary, error) {
	list, err := src.FetchList(ctx, listID)
	if err != nil {
		return Summary{}, fmt.Errorf("fetching contact list: %w", err)
	}

	var headers []string
	seen := make(map[string]bool)
	records := make([]map[string]string, 0, len(list))
	for _, c := range list {
		for label := range c.Fields {
			if !seen[label] {
				seen[label] = true
				headers = append(headers, label)
			}
		}
		records = append(records, c.Fields)
	}
	return ImportRecords(ctx, s, headers, records, opts)
}

// ImportRecords is the shared import path. Mapping decisions are resolved
// to concrete column ids exactly once before any row is written, so N
// records never create more than the number of distinct new fields. Rows
// are bulk-created, then cells are written through the batch executor;
// a failed cell write is tallied, never fatal. The session is reconciled
// afterwards.
func ImportRecords(ctx context.Context, s *session.Session, headers []string, records []map[string]string, opts Options) (Summary, error) {
	decisions := opts.Decisions
	if decisions == nil {
		decisions = mapping.MapAll(headers, s.Columns())
	}

	// Resolve to column ids up front. A creation failure here is a setup
	// failure: nothing has been written yet, the import does not start.
	resolver := mapping.NewResolver(s.Store(), s.Workspace().WorkspaceID)
	colFor := make(map[string]string, len(decisions))
	for _, d := range decisions {
		id, err := resolver.Resolve(d)
		if err != nil {
			return Summary{}, fmt.Errorf("resolving column mapping: %w", err)
		}
		if id != "" {
			colFor[d.Label] = id
		}
	}

	if len(records) == 0 {
		return Summary{}, s.Refresh()
	}

	rows, err := s.Store().CreateRows(s.Workspace().WorkspaceID, len(records))
	if err != nil {
		return Summary{}, fmt.Errorf("creating rows: %w", err)
	}

	// Flatten to one work item per non-blank cell.
	var cells []types.CellValue
	for i, record := range records {
		for label, columnID := range colFor {
			value := record[label]
			if types.IsBlank(value) {
				continue
			}
			cells = append(cells, types.CellValue{
				RowID:    rows[i].RowID,
				ColumnID: columnID,
				Value:    value,
			})
		}
	}

	res := batch.Run(ctx, len(cells), batch.WriteSize, func(ctx context.Context, i int) error {
		c := cells[i]
		return s.Store().UpsertCell(&c)
	}, opts.Progress)

	if err := s.Refresh(); err != nil {
		return Summary{}, fmt.Errorf("reconciling after import: %w", err)
	}
	return Summary{Rows: len(rows), Cells: res.Succeeded, Failed: res.Failed}, nil
}
