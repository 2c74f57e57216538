package dialect

// SqliteDialect reads a single SQLite database file ("main" schema).
type SqliteDialect struct{}

func (d *SqliteDialect) GetTablesQuery(schema string) string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND ? IS NOT NULL ORDER BY name`
}

func (d *SqliteDialect) GetColumnsQuery(schema string) string {
	return `SELECT m.name, p.name, p.type, CASE WHEN p."notnull" = 1 THEN 'NO' ELSE 'YES' END FROM sqlite_master m JOIN pragma_table_info(m.name) p WHERE m.type = 'table' AND ? IS NOT NULL ORDER BY m.name, p.cid`
}

func (d *SqliteDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT m.name, p.name FROM sqlite_master m JOIN pragma_table_info(m.name) p WHERE m.type = 'table' AND p.pk > 0 AND ? IS NOT NULL ORDER BY m.name, p.pk`
}

func (d *SqliteDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT m.name, 'fk_' || p.id, p."from", p."table", p."to" FROM sqlite_master m JOIN pragma_foreign_key_list(m.name) p WHERE m.type = 'table' AND ? IS NOT NULL ORDER BY m.name, p.id, p.seq`
}

func (d *SqliteDialect) GetCreateTableQuery(schema, table string) string {
	return `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ` + QuoteWith(table, "'", "'")
}

func (d *SqliteDialect) GetVersionQuery() string {
	return `SELECT sqlite_version()`
}

// Only the main database is inspected, so names stay unqualified.
func (d *SqliteDialect) SelectAllQuery(schema, table string) string {
	return "SELECT * FROM " + d.QuoteIdent(table)
}

func (d *SqliteDialect) CountQuery(schema, table string) string {
	return "SELECT COUNT(*) FROM " + d.QuoteIdent(table)
}

func (d *SqliteDialect) QuoteIdent(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (d *SqliteDialect) Escape(raw string) string {
	return DoubleQuoteEscape(raw)
}

// The whole file is locked by a writer, there are no table locks.
func (d *SqliteDialect) LockStatements(table string) (string, string) {
	return "", ""
}

func (d *SqliteDialect) GetSchemaName(input string) string {
	if input == "" {
		return "main"
	}
	return input
}
