package types

import (
	"errors"
	"time"
)

// Table types determine which default columns a workspace is seeded with.
const (
	TableTypePeople    = "people"
	TableTypeCompanies = "companies"
)

// validTableTypes is the set of recognized table type values.
var validTableTypes = map[string]bool{
	TableTypePeople:    true,
	TableTypeCompanies: true,
}

// Workspace is a named table instance of a fixed table type. A workspace
// exclusively owns its columns and rows; deleting it cascades to both.
type Workspace struct {
	WorkspaceID string    // UUID v7, generated on creation.
	Name        string    // Human-readable name (required, non-empty).
	TableType   string    // One of the TableType constants.
	CreatedAt   time.Time // Timestamp of creation.
}

// Workspace errors.
var (
	ErrInvalidTableType = errors.New("invalid table type")
	ErrInvalidName      = errors.New("invalid name")
)

// Validate checks that the workspace has a non-empty name and a recognized
// table type.
func (w *Workspace) Validate() error {
	if w.Name == "" {
		return ErrInvalidName
	}
	if !validTableTypes[w.TableType] {
		return ErrInvalidTableType
	}
	return nil
}

// IsValidTableType reports whether the given string is a recognized table type.
func IsValidTableType(tt string) bool {
	return validTableTypes[tt]
}

// DefaultColumn describes a column seeded on workspace creation.
type DefaultColumn struct {
	Name  string
	Width int
}

// defaultColumns lists the columns seeded for each table type, in position
// order. Their field keys form the protected set for that table type.
var defaultColumns = map[string][]DefaultColumn{
	TableTypePeople: {
		{"Name", 200},
		{"Email", 220},
		{"Company", 180},
		{"Job Title", 180},
		{"Phone", 140},
		{"LinkedIn", 200},
	},
	TableTypeCompanies: {
		{"Name", 200},
		{"Domain", 180},
		{"Industry", 160},
		{"Size", 100},
		{"Location", 160},
		{"LinkedIn", 200},
	},
}

// DefaultColumns returns the seeded column set for a table type, in order.
// Returns nil for an unrecognized table type.
func DefaultColumns(tableType string) []DefaultColumn {
	return defaultColumns[tableType]
}

// IsProtectedKey reports whether fieldKey belongs to the default column set
// of the given table type. Protected columns cannot be deleted.
func IsProtectedKey(tableType, fieldKey string) bool {
	for _, dc := range defaultColumns[tableType] {
		if FieldKeyFor(dc.Name) == fieldKey {
			return true
		}
	}
	return false
}
