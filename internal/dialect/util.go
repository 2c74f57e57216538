package dialect

import (
	"strings"
)

// DoubleQuoteEscape escapes a string literal body the standard SQL way,
// by doubling embedded single quotes. Backslashes are left alone.
func DoubleQuoteEscape(raw string) string {
	return strings.ReplaceAll(raw, "'", "''")
}

// QuoteWith wraps name in the given delimiters, doubling any closing
// delimiter found inside it.
func QuoteWith(name, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// Qualify renders schema.table with the dialect's identifier quoting.
func Qualify(d Dialect, schema, table string) string {
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}
