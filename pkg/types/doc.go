// Package types defines the Gridline data model (workspaces, columns, rows,
// cell values), the Store interface implemented by storage backends, and the
// standard sentinel errors shared across the system.
package types
