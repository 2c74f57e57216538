package schema

import "database/sql"

// Graph maps a table name to the tables it references. It is built once per
// run and only read afterwards.
type Graph map[string][]string

// Row is one record, in column order. A NULL field has Valid == false.
type Row []sql.NullString

// RowStream yields a table's rows once, in scan order.
type RowStream interface {
	Columns() int
	// Total is the row count taken before the scan started.
	Total() int
	Next() bool
	Row() Row
	Err() error
	Close() error
}

type Column struct {
	Name       string
	Type       string
	IsNullable bool
	IsPK       bool
}
