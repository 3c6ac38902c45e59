// Package integration tests gridline through its public interfaces: the
// SQLite store, the session, and the import and enrichment flows layered
// on top of them. Each test gets an isolated temp-directory database.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gridline/internal/session"
	"github.com/mesh-intelligence/gridline/internal/sqlite"
	"github.com/mesh-intelligence/gridline/pkg/types"
)

// newTestStore creates a backend attached to a temp directory.
func newTestStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { b.Detach() })
	return b
}

// newTestSession creates a people workspace on a fresh store and opens a
// session on it.
func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	b := newTestStore(t)

	id, err := b.CreateWorkspace(&types.Workspace{Name: "Prospects", TableType: types.TableTypePeople})
	require.NoError(t, err)

	s, err := session.Open(b, id)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}
