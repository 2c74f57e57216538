package dialect

// Dialect abstracts database-specific operations needed to dump a schema.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	GetTablesQuery(schema string) string
	GetColumnsQuery(schema string) string
	GetPrimaryKeysQuery(schema string) string
	GetForeignKeysQuery(schema string) string
	// GetCreateTableQuery returns the native DDL export query, or "" when the
	// engine has none and the DDL must be synthesized from column metadata.
	GetCreateTableQuery(schema, table string) string
	GetVersionQuery() string

	// Data Queries. The table is read from schema, not from whatever the
	// connection's search path resolves first.
	SelectAllQuery(schema, table string) string
	CountQuery(schema, table string) string

	// Dump Syntax
	QuoteIdent(name string) string
	Escape(raw string) string
	// LockStatements returns the lock/unlock pair wrapping a table's data
	// block. Both are empty when the engine cannot express a per-table lock
	// inside a script.
	LockStatements(table string) (lock, unlock string)

	// Helpers
	GetSchemaName(input string) string
}
