package dump

import (
	"database/sql"
	"strings"

	"db-dump/internal/schema"
)

// SerializeValue renders one field as an INSERT literal. NULL becomes null;
// anything else is escaped by the source, quoted, and has raw newlines
// replaced by \n. The newline pass must run after escaping.
func SerializeValue(v sql.NullString, esc Escaper) string {
	if !v.Valid {
		return "null"
	}
	return strings.ReplaceAll("'"+esc.Escape(v.String)+"'", "\n", `\n`)
}

// SerializeRow renders a row as (v1,v2,...).
func SerializeRow(row schema.Row, esc Escaper) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(SerializeValue(v, esc))
	}
	b.WriteByte(')')
	return b.String()
}
