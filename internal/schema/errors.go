package schema

import (
	"fmt"
	"strings"
)

// ConnectionError reports that the source could not be opened or reached.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed metadata or data query.
type QueryError struct {
	Op    string
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s (table: %s): %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Reason classifies why a table never resolved.
type Reason string

const (
	ReasonCycle   Reason = "cycle"
	ReasonMissing Reason = "missing"
	ReasonDepth   Reason = "depth"
)

// Unresolved describes a table left out of the dump order.
type Unresolved struct {
	Table   string
	Missing []string // references not emitted before the table
	Reason  Reason
}

func (u Unresolved) String() string {
	return fmt.Sprintf("%s (%s: %s)", u.Table, u.Reason, strings.Join(u.Missing, ", "))
}

// UnresolvedError is returned by the strict policy when some tables cannot be ordered.
type UnresolvedError struct {
	Tables []Unresolved
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, len(e.Tables))
	for i, u := range e.Tables {
		parts[i] = u.String()
	}
	return fmt.Sprintf("unresolved table dependencies: %s", strings.Join(parts, "; "))
}
