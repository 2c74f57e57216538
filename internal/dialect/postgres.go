package dialect

import (
	"github.com/lib/pq"
)

type PostgresDialect struct{}

func (d *PostgresDialect) GetTablesQuery(schema string) string {
	// use $1 placeholder
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = $1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *PostgresDialect) GetColumnsQuery(schema string) string {
	// udt_name keeps the short type spelling (int4, varchar, ...), which is
	// what CREATE TABLE accepts back.
	return `SELECT
    c.table_name,
    c.column_name,
    CASE WHEN c.character_maximum_length IS NOT NULL
         THEN c.udt_name || '(' || c.character_maximum_length || ')'
         ELSE c.udt_name END,
    c.is_nullable
FROM information_schema.columns c
WHERE c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`
}

func (d *PostgresDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.column_name FROM information_schema.key_column_usage kcu JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema WHERE kcu.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY' ORDER BY kcu.table_name, kcu.ordinal_position`
}

func (d *PostgresDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT kcu.table_name, kcu.constraint_name, kcu.column_name, ccu.table_name AS referenced_table_name, ccu.column_name AS referenced_column_name FROM information_schema.key_column_usage kcu JOIN information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name WHERE kcu.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY' ORDER BY kcu.table_name, kcu.constraint_name`
}

// Postgres has no server-side SHOW CREATE TABLE; the DDL is synthesized.
func (d *PostgresDialect) GetCreateTableQuery(schema, table string) string {
	return ""
}

func (d *PostgresDialect) GetVersionQuery() string {
	return `SHOW server_version`
}

func (d *PostgresDialect) SelectAllQuery(schema, table string) string {
	return "SELECT * FROM " + Qualify(d, schema, table)
}

func (d *PostgresDialect) CountQuery(schema, table string) string {
	return "SELECT COUNT(*) FROM " + Qualify(d, schema, table)
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

// Escape assumes standard_conforming_strings = on (the default since 9.1).
func (d *PostgresDialect) Escape(raw string) string {
	return DoubleQuoteEscape(raw)
}

// LOCK TABLE only lives until the end of the enclosing transaction, so a
// script-level lock/unlock pair cannot be expressed.
func (d *PostgresDialect) LockStatements(table string) (string, string) {
	return "", ""
}

func (d *PostgresDialect) GetSchemaName(input string) string {
	if input == "" {
		return "public"
	}
	return input
}
