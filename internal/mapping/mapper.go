// Package mapping maps external field labels (CSV headers, contact-list
// field names) onto workspace columns. CSV import and contact import share
// this logic.
package mapping

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/gridline/pkg/types"
)

// Decision kinds.
const (
	// MatchExisting maps the label to an existing column (Decision.ColumnID).
	MatchExisting = "existing"
	// CreateNew asks for a new column named after the label.
	CreateNew = "create"
	// Skip drops the field entirely.
	Skip = "skip"
)

// Decision is the mapping outcome for one external label.
type Decision struct {
	Label    string // The external label the decision is for.
	Kind     string // MatchExisting, CreateNew, or Skip.
	ColumnID string // Set when Kind is MatchExisting.
}

// Normalize lowercases a label and strips every character that is not a
// lowercase letter or digit, so "E-Mail Address" and "email_address"
// compare equal.
func Normalize(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Map decides how one external label lands on the existing column set.
// Matching is deliberately loose: normalized equality or substring
// containment in either direction selects a column, first match in column
// order wins. "Company" matching "Company Name" is intended; callers let
// the user review decisions before committing. A label that normalizes to
// nothing is skipped. No match means a new column.
//
// Pure function of its inputs; repeated calls return the same decision.
func Map(label string, columns []types.Column) Decision {
	norm := Normalize(label)
	if norm == "" {
		return Decision{Label: label, Kind: Skip}
	}
	for _, col := range columns {
		cn := Normalize(col.Name)
		if cn == "" {
			continue
		}
		if cn == norm || strings.Contains(cn, norm) || strings.Contains(norm, cn) {
			return Decision{Label: label, Kind: MatchExisting, ColumnID: col.ColumnID}
		}
	}
	return Decision{Label: label, Kind: CreateNew}
}

// MapAll maps every label against the same column set, in order.
func MapAll(labels []string, columns []types.Column) []Decision {
	out := make([]Decision, 0, len(labels))
	for _, label := range labels {
		out = append(out, Map(label, columns))
	}
	return out
}

// Resolver turns decisions into concrete column ids before any batch write.
// Each CreateNew label triggers exactly one column creation; the resulting
// id is memoized so N rows never create more than the number of distinct
// new fields.
type Resolver struct {
	store       ColumnCreator
	workspaceID string
	created     map[string]string // normalized label → created column id
}

// ColumnCreator is the slice of the store the resolver needs.
type ColumnCreator interface {
	CreateColumn(col *types.Column) (string, error)
}

// NewResolver creates a resolver that creates columns through store.
func NewResolver(store ColumnCreator, workspaceID string) *Resolver {
	return &Resolver{
		store:       store,
		workspaceID: workspaceID,
		created:     make(map[string]string),
	}
}

// Resolve returns the column id for a decision, creating the column once
// for CreateNew decisions. Skip decisions resolve to ("", nil).
func (r *Resolver) Resolve(d Decision) (string, error) {
	switch d.Kind {
	case Skip:
		return "", nil
	case MatchExisting:
		return d.ColumnID, nil
	case CreateNew:
		norm := Normalize(d.Label)
		if id, ok := r.created[norm]; ok {
			return id, nil
		}
		col := &types.Column{WorkspaceID: r.workspaceID, Name: d.Label}
		id, err := r.store.CreateColumn(col)
		if err != nil {
			return "", fmt.Errorf("creating column %q: %w", d.Label, err)
		}
		r.created[norm] = id
		return id, nil
	default:
		return "", fmt.Errorf("unknown mapping kind %q", d.Kind)
	}
}
