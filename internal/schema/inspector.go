package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"db-dump/internal/dialect"
)

// Querier is the part of *sql.DB the inspector needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Inspector reads table names, foreign keys, DDL and rows from one schema.
// It is used from a single goroutine; metadata is loaded lazily and cached.
type Inspector struct {
	db     Querier
	d      dialect.Dialect
	host   string
	target string

	names   map[string]string // upper-cased name -> name as reported
	graph   Graph
	columns map[string][]*Column
}

func NewInspector(db Querier, d dialect.Dialect, host, schemaName string) *Inspector {
	// [Interface-First]: Delegate schema resolution to the dialect
	return &Inspector{
		db:     db,
		d:      d,
		host:   host,
		target: d.GetSchemaName(schemaName),
	}
}

func (in *Inspector) Target() (host, schemaName string) {
	return in.host, in.target
}

// Tables returns the schema's base tables in discovery order.
func (in *Inspector) Tables(ctx context.Context) ([]string, error) {
	rows, err := in.db.QueryContext(ctx, in.d.GetTablesQuery(in.target), in.target)
	if err != nil {
		return nil, &QueryError{Op: "query tables", Err: err}
	}
	defer rows.Close()

	var tables []string
	names := make(map[string]string)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &QueryError{Op: "scan table name", Err: err}
		}
		tables = append(tables, name)
		// Store with normalized key (UPPERCASE) for robust lookups
		names[strings.ToUpper(name)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate tables", Err: err}
	}
	in.names = names
	return tables, nil
}

// References returns the tables table points at through foreign keys, in
// constraint order, without duplicates and without table itself.
func (in *Inspector) References(ctx context.Context, table string) ([]string, error) {
	if in.graph == nil {
		if err := in.loadForeignKeys(ctx); err != nil {
			return nil, err
		}
	}
	return in.graph[table], nil
}

func (in *Inspector) loadForeignKeys(ctx context.Context) error {
	if in.names == nil {
		if _, err := in.Tables(ctx); err != nil {
			return err
		}
	}

	fkRows, err := in.db.QueryContext(ctx, in.d.GetForeignKeysQuery(in.target), in.target)
	if err != nil {
		return &QueryError{Op: "query foreign keys", Err: err}
	}
	defer fkRows.Close()

	graph := make(Graph)
	seen := make(map[string]bool)
	for fkRows.Next() {
		var tName, cConst, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cConst, &cName, &rTable, &rCol); err != nil {
			return &QueryError{Op: "scan foreign key", Err: err}
		}
		if !tName.Valid || !rTable.Valid {
			continue
		}

		table := in.canonical(tName.String)
		ref := in.canonical(rTable.String)
		if table == ref {
			continue
		}
		key := table + "\x00" + ref
		if seen[key] {
			continue
		}
		seen[key] = true
		graph[table] = append(graph[table], ref)
	}
	if err := fkRows.Err(); err != nil {
		return &QueryError{Op: "iterate foreign keys", Err: err}
	}
	in.graph = graph
	return nil
}

// canonical maps a name to the spelling the tables query reported. Unknown
// names (tables outside the schema listing) are kept as they are.
func (in *Inspector) canonical(name string) string {
	if actual, ok := in.names[strings.ToUpper(name)]; ok {
		return actual
	}
	return name
}

// CreateTable returns the DDL for table, without a trailing semicolon.
func (in *Inspector) CreateTable(ctx context.Context, table string) (string, error) {
	query := in.d.GetCreateTableQuery(in.target, table)
	if query == "" {
		return in.synthesizeCreateTable(ctx, table)
	}

	rows, err := in.db.QueryContext(ctx, query)
	if err != nil {
		return "", &QueryError{Op: "query create table", Table: table, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", &QueryError{Op: "read create table columns", Table: table, Err: err}
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", &QueryError{Op: "query create table", Table: table, Err: err}
		}
		return "", &QueryError{Op: "query create table", Table: table, Err: sql.ErrNoRows}
	}

	// SHOW CREATE TABLE returns (Table, Create Table); others return the DDL alone.
	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return "", &QueryError{Op: "scan create table", Table: table, Err: err}
	}
	return vals[len(vals)-1].String, nil
}

func (in *Inspector) synthesizeCreateTable(ctx context.Context, table string) (string, error) {
	if in.columns == nil {
		if err := in.loadColumns(ctx); err != nil {
			return "", err
		}
	}
	cols, ok := in.columns[strings.ToUpper(table)]
	if !ok {
		return "", &QueryError{Op: "describe columns", Table: table, Err: sql.ErrNoRows}
	}
	return BuildCreateTable(in.d, table, cols), nil
}

func (in *Inspector) loadColumns(ctx context.Context) error {
	columns := make(map[string][]*Column)

	colRows, err := in.db.QueryContext(ctx, in.d.GetColumnsQuery(in.target), in.target)
	if err != nil {
		return &QueryError{Op: "query columns", Err: err}
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, cType, isNull sql.NullString
		if err := colRows.Scan(&tName, &cName, &cType, &isNull); err != nil {
			return &QueryError{Op: "scan column", Table: tName.String, Err: err}
		}
		if !tName.Valid || !cName.Valid {
			continue // Skip invalid rows
		}
		key := strings.ToUpper(tName.String)
		columns[key] = append(columns[key], &Column{
			Name:       cName.String,
			Type:       cType.String,
			IsNullable: isNull.String == "YES",
		})
	}
	if err := colRows.Err(); err != nil {
		return &QueryError{Op: "iterate columns", Err: err}
	}

	pkRows, err := in.db.QueryContext(ctx, in.d.GetPrimaryKeysQuery(in.target), in.target)
	if err != nil {
		return &QueryError{Op: "query primary keys", Err: err}
	}
	defer pkRows.Close()

	for pkRows.Next() {
		var tName, cName string
		if err := pkRows.Scan(&tName, &cName); err != nil {
			return &QueryError{Op: "scan primary key", Err: err}
		}
		for _, c := range columns[strings.ToUpper(tName)] {
			if c.Name == cName {
				c.IsPK = true
			}
		}
	}
	if err := pkRows.Err(); err != nil {
		return &QueryError{Op: "iterate primary keys", Err: err}
	}

	in.columns = columns
	return nil
}

// Rows counts the table and then opens a scan over all of its rows.
func (in *Inspector) Rows(ctx context.Context, table string) (RowStream, error) {
	var total int
	if err := in.db.QueryRowContext(ctx, in.d.CountQuery(in.target, table)).Scan(&total); err != nil {
		return nil, &QueryError{Op: "count rows", Table: table, Err: err}
	}

	rows, err := in.db.QueryContext(ctx, in.d.SelectAllQuery(in.target, table))
	if err != nil {
		return nil, &QueryError{Op: "select rows", Table: table, Err: err}
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, &QueryError{Op: "read columns", Table: table, Err: err}
	}
	return &sqlRowStream{table: table, rows: rows, columns: len(cols), total: total}, nil
}

func (in *Inspector) ServerVersion(ctx context.Context) (string, error) {
	var v sql.NullString
	if err := in.db.QueryRowContext(ctx, in.d.GetVersionQuery()).Scan(&v); err != nil {
		return "", &QueryError{Op: "query server version", Err: err}
	}
	return v.String, nil
}

func (in *Inspector) Escape(raw string) string {
	return in.d.Escape(raw)
}

func (in *Inspector) QuoteIdent(name string) string {
	return in.d.QuoteIdent(name)
}

func (in *Inspector) LockStatements(table string) (string, string) {
	return in.d.LockStatements(table)
}

// sqlRowStream adapts *sql.Rows to RowStream.
type sqlRowStream struct {
	table   string
	rows    *sql.Rows
	columns int
	total   int
	row     Row
	err     error
}

func (s *sqlRowStream) Columns() int { return s.columns }
func (s *sqlRowStream) Total() int { return s.total }
func (s *sqlRowStream) Row() Row { return s.row }

func (s *sqlRowStream) Next() bool {
	if s.err != nil || !s.rows.Next() {
		return false
	}
	row := make(Row, s.columns)
	dest := make([]any, s.columns)
	for i := range row {
		dest[i] = &row[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		s.err = &QueryError{Op: "scan row", Table: s.table, Err: err}
		return false
	}
	s.row = row
	return true
}

func (s *sqlRowStream) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.rows.Err(); err != nil {
		return &QueryError{Op: "iterate rows", Table: s.table, Err: err}
	}
	return nil
}

func (s *sqlRowStream) Close() error {
	return s.rows.Close()
}

// Open connects and pings the source.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &ConnectionError{Driver: driver, Err: fmt.Errorf("failed to open db: %w", err)}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Driver: driver, Err: err}
	}
	return db, nil
}
