package dump

import (
	"context"

	"db-dump/internal/schema"
)

// Escaper applies the source's string-literal escaping rules.
type Escaper interface {
	Escape(raw string) string
}

// Source is everything the assembler reads from the database.
// *schema.Inspector implements it.
type Source interface {
	Escaper
	Target() (host, schemaName string)
	ServerVersion(ctx context.Context) (string, error)
	Tables(ctx context.Context) ([]string, error)
	References(ctx context.Context, table string) ([]string, error)
	CreateTable(ctx context.Context, table string) (string, error)
	Rows(ctx context.Context, table string) (schema.RowStream, error)
	QuoteIdent(name string) string
	LockStatements(table string) (lock, unlock string)
}

var _ Source = (*schema.Inspector)(nil)
