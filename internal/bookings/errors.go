package bookings

import (
	"errors"
	"fmt"
	"strings"
)

// Load-time failure classes. Both are fatal for the session.
var (
	ErrDataUnavailable = errors.New("dataset unavailable")
	ErrSchemaMismatch  = errors.New("dataset schema mismatch")
)

// LoadError carries the source and, for schema failures, the offending columns
type LoadError struct {
	Source  string
	Missing []string
	Row     int
	Column  string
	Kind    error
	Err     error
}

// Error renders a single human-readable message
func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, " (%s)", e.Source)
	}
	switch {
	case len(e.Missing) > 0:
		fmt.Fprintf(&b, ": missing required columns: %s", strings.Join(e.Missing, ", "))
	case e.Row > 0 && e.Column != "":
		fmt.Fprintf(&b, ": row %d column %q", e.Row, e.Column)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the failure class and the underlying cause
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unavailable(source string, err error) error {
	return &LoadError{Source: source, Kind: ErrDataUnavailable, Err: err}
}

func missingColumns(source string, missing []string) error {
	return &LoadError{Source: source, Kind: ErrSchemaMismatch, Missing: missing}
}

func badCell(source string, row int, column string, err error) error {
	return &LoadError{Source: source, Kind: ErrSchemaMismatch, Row: row, Column: column, Err: err}
}

func malformed(source string, err error) error {
	return &LoadError{Source: source, Kind: ErrSchemaMismatch, Err: err}
}
