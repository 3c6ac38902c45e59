// Package enrich runs the two per-row lookup jobs that share one shape:
// external call → single value → one cell upsert. AI enrichment fills an
// AI column from a text-generation collaborator; email verification fills
// the status column from a validation collaborator. Both run through the
// batch executor with per-item failure isolation and report cumulative
// progress per group.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/gridline/internal/batch"
	"github.com/mesh-intelligence/gridline/internal/emailcheck"
	"github.com/mesh-intelligence/gridline/internal/llm"
	"github.com/mesh-intelligence/gridline/internal/session"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// Summary reports a job outcome. Total counts rows attempted after
// filtering; a failed row's cell is simply not written.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Partial reports whether some rows failed while others succeeded.
func (s Summary) Partial() bool {
	return s.Failed > 0 && s.Succeeded > 0
}

// Options tunes an AI enrichment run.
type Options struct {
	// Limit takes the first K rows in display order; 0 means all rows.
	Limit int

	// SkipExisting excludes rows whose target-column value is already
	// non-blank.
	SkipExisting bool

	// Progress receives cumulative row progress per batch group.
	Progress batch.Progress
}

// EnrichColumn fills the target AI column for the candidate rows. The row
// context sent to the generator gathers every non-AI column's non-blank
// value, labeled by column name. The returned string is upserted verbatim;
// output-type enforcement is delegated to the generator's instructions.
//
// A non-AI or unknown target column is a setup failure; the job does not
// start.
func EnrichColumn(ctx context.Context, s *session.Session, gen llm.TextGenerator, columnID string, opts Options) (Summary, error) {
	target, ok := s.ColumnByID(columnID)
	if !ok {
		return Summary{}, fmt.Errorf("column %s: %w", columnID, types.ErrNotFound)
	}
	if !target.IsAI || target.Prompt == "" {
		return Summary{}, fmt.Errorf("column %q is not an AI column", target.Name)
	}

	contextColumns := make([]types.Column, 0)
	for _, c := range s.Columns() {
		if !c.IsAI {
			contextColumns = append(contextColumns, c)
		}
	}

	candidates := candidateRows(s, opts.Limit)
	if opts.SkipExisting {
		kept := candidates[:0]
		for _, rowID := range candidates {
			if types.IsBlank(s.CellValue(rowID, target.ColumnID)) {
				kept = append(kept, rowID)
			}
		}
		candidates = kept
	}

	slog.Info("starting enrichment", "column", target.Name, "rows", len(candidates))

	res := batch.Run(ctx, len(candidates), batch.LookupSize, func(ctx context.Context, i int) error {
		rowID := candidates[i]

		rowContext := make(map[string]string, len(contextColumns))
		for _, c := range contextColumns {
			if v := s.CellValue(rowID, c.ColumnID); !types.IsBlank(v) {
				rowContext[c.Name] = v
			}
		}

		value, err := gen.Generate(ctx, llm.Request{
			Context:    rowContext,
			Prompt:     target.Prompt,
			OutputType: target.OutputType,
		})
		if err != nil {
			return err
		}
		return s.UpsertCell(rowID, target.ColumnID, value)
	}, opts.Progress)

	return Summary{Total: res.Attempted, Succeeded: res.Succeeded, Failed: res.Failed}, nil
}

// VerifyOptions tunes an email verification run. RowIDs and Limit are
// mutually exclusive candidate modes: an explicit selection wins.
type VerifyOptions struct {
	// RowIDs is an explicit row selection. When empty, the first-K-by-
	// position pool is used instead.
	RowIDs []string

	// Limit takes the first K rows in display order; 0 means all rows.
	// Ignored when RowIDs is set.
	Limit int

	// SkipVerified excludes rows that already have a status value.
	SkipVerified bool

	// Progress receives cumulative row progress per batch group.
	Progress batch.Progress
}

// VerifyEmails verifies candidate rows' email addresses and writes the
// status (with any sub-status in parentheses) into the status column.
//
// The email column is resolved by its reserved field key, not by name; a
// workspace without one is a setup failure. The status column is created
// once, synchronously, before the batch starts if it does not exist;
// a creation failure is likewise fatal.
func VerifyEmails(ctx context.Context, s *session.Session, verifier emailcheck.Verifier, opts VerifyOptions) (Summary, error) {
	emailCol, ok := s.ColumnByKey(types.FieldKeyEmail)
	if !ok {
		return Summary{}, fmt.Errorf("workspace has no email column")
	}

	statusCol, ok := s.ColumnByKey(types.FieldKeyEmailStatus)
	if !ok {
		created, err := s.AddColumn(&types.Column{Name: types.EmailStatusColumnName})
		if err != nil {
			return Summary{}, fmt.Errorf("creating status column: %w", err)
		}
		statusCol = created
	}

	var candidates []string
	if len(opts.RowIDs) > 0 {
		candidates = append(candidates, opts.RowIDs...)
	} else {
		candidates = candidateRows(s, opts.Limit)
	}

	kept := candidates[:0]
	for _, rowID := range candidates {
		if types.IsBlank(s.CellValue(rowID, emailCol.ColumnID)) {
			continue
		}
		if opts.SkipVerified && !types.IsBlank(s.CellValue(rowID, statusCol.ColumnID)) {
			continue
		}
		kept = append(kept, rowID)
	}
	candidates = kept

	slog.Info("starting email verification", "rows", len(candidates))

	res := batch.Run(ctx, len(candidates), batch.LookupSize, func(ctx context.Context, i int) error {
		rowID := candidates[i]
		result, err := verifier.Verify(ctx, s.CellValue(rowID, emailCol.ColumnID))
		if err != nil {
			return err
		}
		return s.UpsertCell(rowID, statusCol.ColumnID, result.Label())
	}, opts.Progress)

	return Summary{Total: res.Attempted, Succeeded: res.Succeeded, Failed: res.Failed}, nil
}

// candidateRows returns the first limit row ids in display order; limit
// <= 0 means all.
func candidateRows(s *session.Session, limit int) []string {
	rows := s.Rows()
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RowID)
	}
	return out
}
