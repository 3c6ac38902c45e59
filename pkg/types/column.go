package types

import (
	"errors"
	"strings"
	"time"
)

// Output types constrain what an AI column's generated values look like.
const (
	OutputTypeText    = "text"
	OutputTypeNumber  = "number"
	OutputTypeBoolean = "boolean"
)

// validOutputTypes is the set of recognized AI output types.
var validOutputTypes = map[string]bool{
	OutputTypeText:    true,
	OutputTypeNumber:  true,
	OutputTypeBoolean: true,
}

// Reserved field keys with special roles.
const (
	FieldKeyEmail       = "email"
	FieldKeyEmailStatus = "email_status"
)

// EmailStatusColumnName is the display name of the auto-created column that
// holds email verification results.
const EmailStatusColumnName = "Email Status"

// Column is a named, positioned field definition within a workspace.
// AI columns carry a prompt and an output type; plain columns carry neither.
type Column struct {
	ColumnID    string    // UUID v7, generated on creation.
	WorkspaceID string    // Owning workspace.
	Name        string    // Display name (required, non-empty).
	FieldKey    string    // Stable key derived from Name; unique per workspace.
	Position    int       // Ordinal position; unique per workspace, not necessarily contiguous.
	Width       int       // Display width in pixels.
	IsAI        bool      // True when values are produced by the text-generation collaborator.
	Prompt      string    // Enrichment prompt; non-empty iff IsAI.
	OutputType  string    // One of the OutputType constants; set only when IsAI.
	CreatedAt   time.Time // Timestamp of creation.
}

// Column errors.
var (
	ErrInvalidOutputType = errors.New("invalid output type")
	ErrMissingPrompt     = errors.New("AI column requires a prompt")
	ErrUnexpectedPrompt  = errors.New("non-AI column must not have a prompt")
	ErrProtectedColumn   = errors.New("protected column cannot be deleted")
	ErrDuplicateFieldKey = errors.New("field key already exists in workspace")
)

// Validate checks the column invariants: non-empty name, and the AI flag
// consistent with prompt and output type.
func (c *Column) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.IsAI {
		if c.Prompt == "" {
			return ErrMissingPrompt
		}
		if !validOutputTypes[c.OutputType] {
			return ErrInvalidOutputType
		}
		return nil
	}
	if c.Prompt != "" || c.OutputType != "" {
		return ErrUnexpectedPrompt
	}
	return nil
}

// IsValidOutputType reports whether the given string is a recognized output type.
func IsValidOutputType(ot string) bool {
	return validOutputTypes[ot]
}

// FieldKeyFor derives the stable field key for a display name: lowercase,
// runs of non-alphanumeric characters collapsed to single underscores,
// leading and trailing underscores trimmed. "E-Mail Address" → "e_mail_address".
func FieldKeyFor(name string) string {
	var b strings.Builder
	lastSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep && b.Len() > 0 {
			b.WriteByte('_')
			lastSep = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
