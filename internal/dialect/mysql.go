package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) GetTablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`
}

func (d *MysqlDialect) GetColumnsQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetPrimaryKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND COLUMN_KEY = 'PRI' ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetForeignKeysQuery(schema string) string {
	return `SELECT TABLE_NAME, CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL ORDER BY TABLE_NAME, CONSTRAINT_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetCreateTableQuery(schema, table string) string {
	return "SHOW CREATE TABLE " + d.qualified(schema, table)
}

func (d *MysqlDialect) GetVersionQuery() string {
	return `SELECT VERSION()`
}

func (d *MysqlDialect) SelectAllQuery(schema, table string) string {
	return "SELECT * FROM " + d.qualified(schema, table)
}

func (d *MysqlDialect) CountQuery(schema, table string) string {
	return "SELECT COUNT(*) FROM " + d.qualified(schema, table)
}

// qualified falls back to the DSN's database when no schema is given.
func (d *MysqlDialect) qualified(schema, table string) string {
	if schema == "" {
		return d.QuoteIdent(table)
	}
	return Qualify(d, schema, table)
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return QuoteWith(name, "`", "`")
}

// Escape follows mysql_real_escape_string for a backslash-escaping session.
func (d *MysqlDialect) Escape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 8)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\032':
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (d *MysqlDialect) LockStatements(table string) (string, string) {
	return fmt.Sprintf("LOCK TABLES %s WRITE;", d.QuoteIdent(table)), "UNLOCK TABLES;"
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
