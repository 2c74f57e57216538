package dump_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"db-dump/internal/dump"
	"db-dump/internal/schema"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

func testOptions() dump.Options {
	opts := dump.DefaultOptions()
	opts.Now = fixedNow
	return opts
}

func TestDump_TwoTablesLockAndDrop(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "country", columns: 1, rows: idRows(3)},
		{name: "language", columns: 1, rows: idRows(1)},
	}}

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, testOptions()); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := buf.String()

	for _, table := range []string{"country", "language"} {
		if got := strings.Count(out, "DROP TABLE IF EXISTS `"+table+"`;"); got != 1 {
			t.Errorf("%s: DROP TABLE count = %d, want 1", table, got)
		}
		if got := strings.Count(out, "LOCK TABLES `"+table+"` WRITE;"); got != 1 {
			t.Errorf("%s: LOCK count = %d, want 1", table, got)
		}
		if got := strings.Count(out, "-- Table structure for table `"+table+"`"); got != 1 {
			t.Errorf("%s: structure marker count = %d, want 1", table, got)
		}
	}
	if got := strings.Count(out, "UNLOCK TABLES;"); got != 2 {
		t.Errorf("UNLOCK count = %d, want 2", got)
	}

	if !strings.HasPrefix(out, "-- db-dump ") {
		t.Errorf("document does not start with the banner: %q", out[:40])
	}
	if got := strings.Count(out, "SET @OLD_CHARACTER_SET_CLIENT=@@CHARACTER_SET_CLIENT"); got != 1 {
		t.Errorf("header prologue count = %d, want 1", got)
	}
	if got := strings.Count(out, "SET CHARACTER_SET_CLIENT=@OLD_CHARACTER_SET_CLIENT"); got != 1 {
		t.Errorf("footer epilogue count = %d, want 1", got)
	}
	if !strings.HasSuffix(out, "-- Dump completed on 2024-03-09 14:05:07\n") {
		t.Errorf("document does not end with the completion stamp")
	}
	if !strings.Contains(out, "-- Host: 127.0.0.1:3306    Database: shop") {
		t.Errorf("missing host/database line")
	}
}

func TestDump_TableBlockLayout(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{{name: "city", columns: 2, rows: []schema.Row{
		{str("1"), str("Paris")},
		{str("2"), null},
	}}}}

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, testOptions()); err != nil {
		t.Fatal(err)
	}

	want := "\n--\n-- Table structure for table `city`\n--\n" +
		"DROP TABLE IF EXISTS `city`;\n" +
		"/*!40101 SET @saved_cs_client     = @@character_set_client */;\n" +
		"/*!40101 SET character_set_client = utf8 */;\n\n" +
		"CREATE TABLE `city` (\n  `id` int NOT NULL\n);\n\n" +
		"/*!40101 SET character_set_client = @saved_cs_client */;\n" +
		"\n--\n-- Dumping data for table `city`\n--\n" +
		"LOCK TABLES `city` WRITE;\n" +
		"/*!40000 ALTER TABLE `city` DISABLE KEYS */;" +
		"\nINSERT INTO city VALUES\n('1','Paris'),\n('2',null);\n" +
		"/*!40000 ALTER TABLE `city` ENABLE KEYS */;\n" +
		"UNLOCK TABLES;\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("table block mismatch, document:\n%s", buf.String())
	}
}

func TestDump_NoLockNoDrop(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{{name: "city", columns: 1, rows: idRows(1)}}}
	opts := testOptions()
	opts.LockTables = false
	opts.DropTables = false

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "DROP TABLE") || strings.Contains(out, "LOCK TABLES") {
		t.Errorf("unexpected DROP/LOCK in output:\n%s", out)
	}
}

func TestDump_EmptyTableHasNoInserts(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{{name: "empty", columns: 3}}}

	var results []dump.TableResult
	opts := testOptions()
	opts.OnTable = func(r dump.TableResult) { results = append(results, r) }

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "INSERT INTO") {
		t.Errorf("empty table produced an INSERT:\n%s", out)
	}
	if !strings.Contains(out, "-- Table structure for table `empty`") {
		t.Errorf("empty table has no structure block")
	}
	if !strings.Contains(out, "DISABLE KEYS */;\n/*!40000 ALTER TABLE `empty` ENABLE KEYS */;") {
		t.Errorf("data block of an empty table is not empty:\n%s", out)
	}
	if len(results) != 1 || results[0].Rows != 0 || results[0].Statements != 0 {
		t.Errorf("OnTable results = %+v", results)
	}
}

func TestDump_DependencyOrder(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "address", refs: []string{"city"}, columns: 1},
		{name: "city", refs: []string{"country"}, columns: 1},
		{name: "country", columns: 1},
	}}

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, testOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	country := strings.Index(out, "for table `country`")
	city := strings.Index(out, "for table `city`")
	address := strings.Index(out, "for table `address`")
	if !(country < city && city < address) {
		t.Errorf("tables out of order: country=%d city=%d address=%d", country, city, address)
	}
}

func TestDump_FilterKeepsDiscoveryOrder(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "actor", columns: 1},
		{name: "film", columns: 1},
		{name: "store", columns: 1},
	}}
	opts := testOptions()
	opts.FilterTables = []string{"STORE", "actor", "missing"}

	plan, err := dump.MakePlan(context.Background(), src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(plan.Tables, ",") != "actor,store" {
		t.Errorf("plan = %v, want [actor store]", plan.Tables)
	}
}

func TestDump_FilteredOutParentDropsChild(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "customer", columns: 1},
		{name: "payment", refs: []string{"customer"}, columns: 1},
	}}
	opts := testOptions()
	opts.FilterTables = []string{"payment"}

	plan, err := dump.MakePlan(context.Background(), src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Tables) != 0 {
		t.Errorf("plan = %v, want empty", plan.Tables)
	}
	if len(plan.Unresolved) != 1 || plan.Unresolved[0].Reason != schema.ReasonMissing {
		t.Errorf("unresolved = %+v, want payment as missing", plan.Unresolved)
	}
}

func TestDump_StrictPolicyFailsBeforeOutput(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "staff", refs: []string{"store"}, columns: 1},
		{name: "store", refs: []string{"staff"}, columns: 1},
	}}
	opts := testOptions()
	opts.Policy = schema.PolicyStrict

	var buf bytes.Buffer
	err := dump.Dump(context.Background(), &buf, src, opts)

	var unresolved *schema.UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected *UnresolvedError, got %v", err)
	}
	if len(unresolved.Tables) != 2 {
		t.Errorf("unresolved tables = %+v, want staff and store", unresolved.Tables)
	}
	if buf.Len() != 0 {
		t.Errorf("strict failure wrote output:\n%s", buf.String())
	}
}

func TestDump_LegacyPolicyDropsCycle(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{
		{name: "staff", refs: []string{"store"}, columns: 1},
		{name: "store", refs: []string{"staff"}, columns: 1},
		{name: "country", columns: 1},
	}}

	var buf bytes.Buffer
	if err := dump.Dump(context.Background(), &buf, src, testOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "`staff`") || strings.Contains(out, "`store`") {
		t.Errorf("cyclic tables should be left out:\n%s", out)
	}
	if !strings.Contains(out, "`country`") {
		t.Errorf("country missing from dump")
	}
}

func TestDump_InvalidConfig(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{{name: "city", columns: 1}}}
	for _, mutate := range []func(*dump.Options){
		func(o *dump.Options) { o.InsertEvery = 0 },
		func(o *dump.Options) { o.InsertEvery = -1 },
		func(o *dump.Options) { o.Policy = "lenient" },
	} {
		opts := testOptions()
		mutate(&opts)

		var buf bytes.Buffer
		err := dump.Dump(context.Background(), &buf, src, opts)
		if !errors.Is(err, dump.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
		if buf.Len() != 0 || len(src.opened) != 0 {
			t.Errorf("invalid config must fail before any I/O")
		}
	}
}

func TestDump_QueryFailureAbortsAfterEmittedTables(t *testing.T) {
	src := &fakeSource{
		tables: []fakeTable{
			{name: "a", columns: 1, rows: idRows(1)},
			{name: "b", columns: 1, rows: idRows(1)},
		},
		failOn: "b",
	}

	var buf bytes.Buffer
	err := dump.Dump(context.Background(), &buf, src, testOptions())

	var qe *schema.QueryError
	if !errors.As(err, &qe) || qe.Table != "b" {
		t.Fatalf("expected QueryError for b, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "INSERT INTO a VALUES") {
		t.Errorf("text emitted for a was lost")
	}
	if strings.Contains(out, "Dump completed") {
		t.Errorf("aborted dump must not have a footer")
	}
}

func TestDump_CancelledContext(t *testing.T) {
	src := &fakeSource{tables: []fakeTable{{name: "a", columns: 1, rows: idRows(1)}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := dump.Dump(ctx, &buf, src, testOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(buf.String(), "`a`") {
		t.Errorf("no table should be written after cancellation")
	}
}
