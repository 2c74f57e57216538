package schema_test

import (
	"testing"

	"db-dump/internal/dialect"
	"db-dump/internal/schema"
)

func TestBuildCreateTable(t *testing.T) {
	cols := []*schema.Column{
		{Name: "order_id", Type: "int4", IsPK: true},
		{Name: "line", Type: "int4", IsPK: true},
		{Name: "note", Type: "varchar(200)", IsNullable: true},
	}

	tests := []struct {
		name string
		d    dialect.Dialect
		want string
	}{
		{"postgres", &dialect.PostgresDialect{}, "CREATE TABLE \"order_line\" (\n  \"order_id\" int4 NOT NULL,\n  \"line\" int4 NOT NULL,\n  \"note\" varchar(200),\n  PRIMARY KEY (\"order_id\", \"line\")\n)"},
		{"mssql", &dialect.MSSQLDialect{}, "CREATE TABLE [order_line] (\n  [order_id] int4 NOT NULL,\n  [line] int4 NOT NULL,\n  [note] varchar(200),\n  PRIMARY KEY ([order_id], [line])\n)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schema.BuildCreateTable(tt.d, "order_line", cols); got != tt.want {
				t.Errorf("BuildCreateTable() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestBuildCreateTable_NoPrimaryKey(t *testing.T) {
	got := schema.BuildCreateTable(&dialect.OracleDialect{}, "LOG", []*schema.Column{{Name: "MSG", Type: "VARCHAR2(100)", IsNullable: true}})
	want := "CREATE TABLE \"LOG\" (\n  \"MSG\" VARCHAR2(100)\n)"
	if got != want {
		t.Errorf("BuildCreateTable() = %q, want %q", got, want)
	}
}
