package dump

import (
	"errors"
	"fmt"
	"time"

	"db-dump/internal/schema"
)

// DefaultInsertEvery is the number of rows per INSERT statement.
const DefaultInsertEvery = 500

// ErrInvalidConfig is wrapped by every Options validation failure.
var ErrInvalidConfig = errors.New("invalid dump configuration")

// Options configures one dump. It is passed by value and never modified.
type Options struct {
	LockTables   bool     // wrap each data block in LOCK TABLES / UNLOCK TABLES
	DropTables   bool     // emit DROP TABLE IF EXISTS before each structure block
	FilterTables []string // if non-empty, dump only these tables
	InsertEvery  int      // rows per INSERT statement
	Policy       schema.Policy

	// Now stamps the footer. Defaults to time.Now.
	Now func() time.Time
	// OnPlan is called once the table order is known, before any output.
	OnPlan func(*Plan)
	// OnTable is called after each table has been written.
	OnTable func(TableResult)
}

// DefaultOptions mirrors the defaults of the command line.
func DefaultOptions() Options {
	return Options{
		LockTables:  true,
		DropTables:  true,
		InsertEvery: DefaultInsertEvery,
		Policy:      schema.PolicyLegacy,
	}
}

// Validate reports configuration errors before any I/O starts.
func (o Options) Validate() error {
	if o.InsertEvery <= 0 {
		return fmt.Errorf("%w: insert batch size must be positive, got %d", ErrInvalidConfig, o.InsertEvery)
	}
	if _, err := schema.ParsePolicy(string(o.Policy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// TableResult summarizes one dumped table.
type TableResult struct {
	Name       string
	Rows       int
	Statements int
}
