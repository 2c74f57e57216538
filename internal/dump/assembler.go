package dump

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"db-dump/internal/schema"
)

// Plan is the table order a dump will follow.
type Plan struct {
	Tables     []string // emission order
	Graph      schema.Graph
	Unresolved []schema.Unresolved
}

// MakePlan discovers the tables, applies the filter, loads the foreign key
// references and resolves the emission order.
func MakePlan(ctx context.Context, src Source, opts Options) (*Plan, error) {
	discovered, err := src.Tables(ctx)
	if err != nil {
		return nil, err
	}

	tables := filterTables(discovered, opts.FilterTables)
	if len(opts.FilterTables) > 0 && len(tables) == 0 {
		log.Printf("Warning: no matching tables found for inputs: %v", opts.FilterTables)
	}

	graph := make(schema.Graph, len(tables))
	for _, t := range tables {
		refs, err := src.References(ctx, t)
		if err != nil {
			return nil, err
		}
		graph[t] = refs
	}

	res, err := schema.Resolve(tables, graph, opts.Policy)
	if err != nil {
		return nil, err
	}
	for _, u := range res.Unresolved {
		log.Printf("[Sort] Skipping table %s: %s reference(s) %s never resolved", u.Table, u.Reason, strings.Join(u.Missing, ", "))
	}

	return &Plan{Tables: res.Order, Graph: graph, Unresolved: res.Unresolved}, nil
}

// filterTables keeps the discovered tables named in filter, in discovery
// order. Names match case-insensitively. An empty filter keeps everything.
func filterTables(discovered, filter []string) []string {
	if len(filter) == 0 {
		return discovered
	}
	req := make(map[string]bool, len(filter))
	for _, t := range filter {
		req[strings.ToLower(t)] = true
	}
	var out []string
	for _, t := range discovered {
		if req[strings.ToLower(t)] {
			out = append(out, t)
		}
	}
	return out
}

// Dump writes the whole document for src to w: header, one structure and
// one data block per table in dependency order, footer. Output is flushed
// after every table, so a failure leaves the text written so far in w.
func Dump(ctx context.Context, w io.Writer, src Source, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	plan, err := MakePlan(ctx, src, opts)
	if err != nil {
		return err
	}
	if opts.OnPlan != nil {
		opts.OnPlan(plan)
	}
	serverVersion, err := src.ServerVersion(ctx)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	host, schemaName := src.Target()
	if err := WriteHeader(bw, host, schemaName, serverVersion); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, table := range plan.Tables {
		if err := ctx.Err(); err != nil {
			bw.Flush()
			return err
		}
		result, err := writeTable(ctx, bw, src, table, opts)
		if err != nil {
			bw.Flush()
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to flush table %s: %w", table, err)
		}
		if opts.OnTable != nil {
			opts.OnTable(result)
		}
	}

	if err := WriteFooter(bw, opts.now()); err != nil {
		return fmt.Errorf("failed to write footer: %w", err)
	}
	return bw.Flush()
}

func writeTable(ctx context.Context, w io.Writer, src Source, table string, opts Options) (TableResult, error) {
	result := TableResult{Name: table}

	ddl, err := src.CreateTable(ctx, table)
	if err != nil {
		return result, err
	}

	tw := &textWriter{w: w}
	quoted := src.QuoteIdent(table)

	// Structure
	tw.printf("\n--\n-- Table structure for table `%s`\n--\n", table)
	if opts.DropTables {
		tw.printf("DROP TABLE IF EXISTS %s;\n", quoted)
	}
	tw.str("/*!40101 SET @saved_cs_client     = @@character_set_client */;\n")
	tw.str("/*!40101 SET character_set_client = utf8 */;")
	tw.printf("\n\n%s;\n\n", ddl)
	tw.str("/*!40101 SET character_set_client = @saved_cs_client */;\n")

	// Data
	lock, unlock := src.LockStatements(table)
	locked := opts.LockTables && lock != ""
	tw.printf("\n--\n-- Dumping data for table `%s`\n--\n", table)
	if locked {
		tw.str(lock + "\n")
	}
	tw.printf("/*!40000 ALTER TABLE %s DISABLE KEYS */;", quoted)
	if tw.err != nil {
		return result, fmt.Errorf("failed to write table %s: %w", table, tw.err)
	}

	rows, err := src.Rows(ctx, table)
	if err != nil {
		return result, err
	}
	stats, err := WriteInserts(w, table, rows, opts.InsertEvery, src)
	rows.Close()
	if err != nil {
		return result, err
	}
	result.Rows = stats.Rows
	result.Statements = stats.Statements

	tw.str("\n")
	tw.printf("/*!40000 ALTER TABLE %s ENABLE KEYS */;\n", quoted)
	if locked {
		tw.str(unlock + "\n")
	}
	if tw.err != nil {
		return result, fmt.Errorf("failed to write table %s: %w", table, tw.err)
	}
	return result, nil
}
