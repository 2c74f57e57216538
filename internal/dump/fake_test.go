package dump_test

import (
	"context"
	"database/sql"
	"fmt"

	"db-dump/internal/dialect"
	"db-dump/internal/schema"
)

type fakeTable struct {
	name    string
	refs    []string
	columns int
	rows    []schema.Row
}

// fakeSource is an in-memory MySQL-flavoured Source.
type fakeSource struct {
	dialect.MysqlDialect
	tables []fakeTable
	failOn string // table whose Rows call fails
	opened []string
}

func (f *fakeSource) Target() (string, string) { return "127.0.0.1:3306", "shop" }

func (f *fakeSource) ServerVersion(ctx context.Context) (string, error) { return "8.0.36", nil }

func (f *fakeSource) Tables(ctx context.Context) ([]string, error) {
	names := make([]string, len(f.tables))
	for i, t := range f.tables {
		names[i] = t.name
	}
	return names, nil
}

func (f *fakeSource) find(name string) *fakeTable {
	for i := range f.tables {
		if f.tables[i].name == name {
			return &f.tables[i]
		}
	}
	return nil
}

func (f *fakeSource) References(ctx context.Context, table string) ([]string, error) {
	return f.find(table).refs, nil
}

func (f *fakeSource) CreateTable(ctx context.Context, table string) (string, error) {
	return fmt.Sprintf("CREATE TABLE `%s` (\n  `id` int NOT NULL\n)", table), nil
}

func (f *fakeSource) Rows(ctx context.Context, table string) (schema.RowStream, error) {
	if table == f.failOn {
		return nil, &schema.QueryError{Op: "select rows", Table: table, Err: sql.ErrConnDone}
	}
	f.opened = append(f.opened, table)
	t := f.find(table)
	return newSliceStream(t.columns, t.rows), nil
}

// sliceStream is a RowStream over a fixed slice.
type sliceStream struct {
	columns int
	rows    []schema.Row
	pos     int
	closed  bool
}

func newSliceStream(columns int, rows []schema.Row) *sliceStream {
	return &sliceStream{columns: columns, rows: rows, pos: -1}
}

func (s *sliceStream) Columns() int { return s.columns }
func (s *sliceStream) Total() int { return len(s.rows) }
func (s *sliceStream) Row() schema.Row { return s.rows[s.pos] }
func (s *sliceStream) Err() error { return nil }
func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

func (s *sliceStream) Next() bool {
	if s.pos+1 >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

var null = sql.NullString{}

func idRows(n int) []schema.Row {
	rows := make([]schema.Row, n)
	for i := range rows {
		rows[i] = schema.Row{str(fmt.Sprint(i + 1))}
	}
	return rows
}
