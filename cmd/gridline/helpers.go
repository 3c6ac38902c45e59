// Shared helpers for gridline CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/gridline/internal/batch"
	"github.com/mesh-intelligence/gridline/internal/session"
	"github.com/mesh-intelligence/gridline/internal/sqlite"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// openSession opens a session on the active workspace. The active workspace
// is set with 'gridline workspace use'.
func openSession(backend *sqlite.Backend) (*session.Session, error) {
	if configWorkspaceID == "" {
		return nil, errors.New("no active workspace (run 'gridline workspace use <id>')")
	}

	s, err := session.Open(backend, configWorkspaceID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("active workspace %q not found", configWorkspaceID)
		}
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return s, nil
}

// resolveColumnArg finds a column by field key first, then by column id.
func resolveColumnArg(s *session.Session, arg string) (types.Column, error) {
	if col, ok := s.ColumnByKey(types.FieldKeyFor(arg)); ok {
		return col, nil
	}
	if col, ok := s.ColumnByID(arg); ok {
		return col, nil
	}
	return types.Column{}, fmt.Errorf("column %q not found", arg)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// progressPrinter reports cumulative batch progress on stderr.
func progressPrinter(label string) batch.Progress {
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "%s: %d/%d\n", label, done, total)
	}
}

// isNotFound returns true if the error wraps ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
