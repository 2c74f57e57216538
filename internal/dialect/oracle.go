package dialect

type OracleDialect struct{}

func (d *OracleDialect) GetTablesQuery(schema string) string {
	// USER_TABLES lists tables owned by the current user.
	// We include a dummy clause to consume the schema argument passed by standard callers.
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL ORDER BY TABLE_NAME`
}

func (d *OracleDialect) GetColumnsQuery(schema string) string {
	return `
SELECT
    t.TABLE_NAME,
    t.COLUMN_NAME,
    t.DATA_TYPE || CASE
        WHEN t.DATA_TYPE IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR', 'RAW') THEN '(' || t.DATA_LENGTH || ')'
        WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION IS NOT NULL THEN '(' || t.DATA_PRECISION || ',' || COALESCE(t.DATA_SCALE, 0) || ')'
        ELSE ''
    END,
    CASE t.NULLABLE WHEN 'Y' THEN 'YES' ELSE 'NO' END
FROM USER_TAB_COLUMNS t
WHERE :1 IS NOT NULL
ORDER BY t.TABLE_NAME, t.COLUMN_ID`
}

func (d *OracleDialect) GetPrimaryKeysQuery(schema string) string {
	return `
SELECT cc.TABLE_NAME, cc.COLUMN_NAME
FROM USER_CONS_COLUMNS cc
JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
WHERE uc.CONSTRAINT_TYPE = 'P' AND :1 IS NOT NULL
ORDER BY cc.TABLE_NAME, cc.POSITION`
}

func (d *OracleDialect) GetForeignKeysQuery(schema string) string {
	return `
SELECT
    c.TABLE_NAME,
    c.CONSTRAINT_NAME,
    cc.COLUMN_NAME,
    r.TABLE_NAME AS REF_TABLE,
    rcc.COLUMN_NAME AS REF_COLUMN
FROM USER_CONSTRAINTS c
JOIN USER_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN USER_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN USER_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R'
AND :1 IS NOT NULL`
}

// DBMS_METADATA.GET_DDL needs extra grants on most installs, so the DDL is
// synthesized from USER_TAB_COLUMNS instead.
func (d *OracleDialect) GetCreateTableQuery(schema, table string) string {
	return ""
}

func (d *OracleDialect) GetVersionQuery() string {
	return `SELECT BANNER FROM V$VERSION WHERE ROWNUM = 1`
}

// The metadata comes from USER_* views, so tables are the login user's own
// and resolve unqualified.
func (d *OracleDialect) SelectAllQuery(schema, table string) string {
	return "SELECT * FROM " + d.QuoteIdent(table)
}

func (d *OracleDialect) CountQuery(schema, table string) string {
	return "SELECT COUNT(*) FROM " + d.QuoteIdent(table)
}

func (d *OracleDialect) QuoteIdent(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (d *OracleDialect) Escape(raw string) string {
	return DoubleQuoteEscape(raw)
}

func (d *OracleDialect) LockStatements(table string) (string, string) {
	return "", ""
}

// Oracle reads '' as NULL, which would fail the ":1 IS NOT NULL" guard and
// hide every table.
func (d *OracleDialect) GetSchemaName(input string) string {
	if input == "" {
		return "USER"
	}
	return input
}
