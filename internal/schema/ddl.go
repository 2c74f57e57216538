package schema

import (
	"strings"

	"db-dump/internal/dialect"
)

// BuildCreateTable renders a CREATE TABLE statement from column metadata for
// engines that cannot export their own DDL.
func BuildCreateTable(d dialect.Dialect, table string, cols []*Column) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.QuoteIdent(table))
	b.WriteString(" (\n")

	var pk []string
	for i, c := range cols {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(d.QuoteIdent(c.Name))
		if c.Type != "" {
			b.WriteString(" ")
			b.WriteString(c.Type)
		}
		if !c.IsNullable {
			b.WriteString(" NOT NULL")
		}
		if c.IsPK {
			pk = append(pk, d.QuoteIdent(c.Name))
		}
	}
	if len(pk) > 0 {
		b.WriteString(",\n  PRIMARY KEY (")
		b.WriteString(strings.Join(pk, ", "))
		b.WriteString(")")
	}
	b.WriteString("\n)")
	return b.String()
}
