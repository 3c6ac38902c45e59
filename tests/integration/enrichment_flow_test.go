// Integration tests for the enrichment flow: AI column fills and email
// verification running over an imported workspace.
package integration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridline/internal/emailcheck"
	"github.com/mesh-intelligence/gridline/internal/enrich"
	"github.com/mesh-intelligence/gridline/internal/importer"
	"github.com/mesh-intelligence/gridline/internal/llm"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// scriptedGenerator answers by looking up the row's Name context value.
type scriptedGenerator struct {
	answers map[string]string
}

func (g *scriptedGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	if v, ok := g.answers[req.Context["Name"]]; ok {
		return v, nil
	}
	return "", errors.New("no answer scripted")
}

// scriptedVerifier answers by email address.
type scriptedVerifier struct {
	results map[string]emailcheck.Result
}

func (v *scriptedVerifier) Verify(ctx context.Context, email string) (emailcheck.Result, error) {
	if r, ok := v.results[email]; ok {
		return r, nil
	}
	return emailcheck.Result{}, errors.New("provider unavailable")
}

func TestEnrichmentOverImportedData(t *testing.T) {
	s := newTestSession(t)

	csvText := strings.Join([]string{
		"Name,Email",
		"Ada Lovelace,ada@example.com",
		"Grace Hopper,grace@example.com",
		"Alan Turing,alan@example.com",
	}, "\n")
	_, err := importer.ImportCSV(context.Background(), s, strings.NewReader(csvText), importer.Options{})
	require.NoError(t, err)

	industry, err := s.AddColumn(&types.Column{
		Name:       "Industry",
		IsAI:       true,
		Prompt:     "What industry does this person work in?",
		OutputType: types.OutputTypeText,
	})
	require.NoError(t, err)

	gen := &scriptedGenerator{answers: map[string]string{
		"Ada Lovelace": "Computing",
		"Grace Hopper": "Military",
		// Alan Turing deliberately unscripted: that row fails.
	}}

	sum, err := enrich.EnrichColumn(context.Background(), s, gen, industry.ColumnID, enrich.Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)
	assert.True(t, sum.Partial())

	rows := s.Rows()
	assert.Equal(t, "Computing", s.CellValue(rows[0].RowID, industry.ColumnID))
	assert.Equal(t, "Military", s.CellValue(rows[1].RowID, industry.ColumnID))
	assert.Empty(t, s.CellValue(rows[2].RowID, industry.ColumnID), "failed row keeps no value")

	// A retry with skip-existing only touches the failed row.
	gen.answers["Alan Turing"] = "Computing"
	sum, err = enrich.EnrichColumn(context.Background(), s, gen, industry.ColumnID, enrich.Options{SkipExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, "Computing", s.CellValue(rows[2].RowID, industry.ColumnID))
}

func TestVerificationOverImportedData(t *testing.T) {
	s := newTestSession(t)

	csvText := strings.Join([]string{
		"Name,Email",
		"Ada Lovelace,ada@example.com",
		"Grace Hopper,",
		"Alan Turing,alan@example.com",
	}, "\n")
	_, err := importer.ImportCSV(context.Background(), s, strings.NewReader(csvText), importer.Options{})
	require.NoError(t, err)

	verifier := &scriptedVerifier{results: map[string]emailcheck.Result{
		"ada@example.com":  {Status: "valid"},
		"alan@example.com": {Status: "invalid", SubStatus: "disposable"},
	}}

	sum, err := enrich.VerifyEmails(context.Background(), s, verifier, enrich.VerifyOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total, "the blank-email row is not attempted")
	assert.Equal(t, 2, sum.Succeeded)

	statusCol, ok := s.ColumnByKey(types.FieldKeyEmailStatus)
	require.True(t, ok, "status column auto-created")
	assert.Equal(t, types.EmailStatusColumnName, statusCol.Name)
	assert.False(t, statusCol.IsAI)

	rows := s.Rows()
	assert.Equal(t, "valid", s.CellValue(rows[0].RowID, statusCol.ColumnID))
	assert.Empty(t, s.CellValue(rows[1].RowID, statusCol.ColumnID))
	assert.Equal(t, "invalid (disposable)", s.CellValue(rows[2].RowID, statusCol.ColumnID))

	// The status column is not protected and can be removed.
	assert.NoError(t, s.DeleteColumn(statusCol.ColumnID))
}
