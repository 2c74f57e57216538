package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"db-dump/internal/dialect"
	"db-dump/internal/dump"
	"db-dump/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	output      string
	compression string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the schema and its rows as SQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := dumpOptions()
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd.Context(), viper.GetDuration("settings.timeout"))
		defer cancel()

		out, err := openSink(output, compression)
		if err != nil {
			return err
		}

		// Report to stderr when the dump itself goes to stdout
		var report io.Writer = os.Stdout
		toFile := output != "" && output != "-"
		if !toFile {
			report = os.Stderr
		}

		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)
		inspector := schema.NewInspector(DB, d, Host, SchemaName)

		var bar *uiprogress.Bar
		var results []dump.TableResult
		opts.OnPlan = func(p *dump.Plan) {
			log.Printf("Dumping %d tables (%d skipped)...", len(p.Tables), len(p.Unresolved))
			if toFile && len(p.Tables) > 0 {
				uiprogress.Start()
				bar = uiprogress.AddBar(len(p.Tables)).AppendCompleted().PrependElapsed()
				bar.PrependFunc(func(b *uiprogress.Bar) string {
					return "Dumping: "
				})
			}
		}
		opts.OnTable = func(r dump.TableResult) {
			results = append(results, r)
			if bar != nil {
				bar.Incr()
			}
		}

		start := time.Now()
		err = dump.Dump(ctx, out, inspector, opts)
		if bar != nil {
			uiprogress.Stop()
		}
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}

		// Final Report
		fmt.Fprintln(report, "\n📊 Summary Report (Dump Order):")
		totalRows := 0
		for i, r := range results {
			fmt.Fprintf(report, "[%02d/%02d] %-20s : %d rows in %d statements\n",
				i+1, len(results), r.Name, r.Rows, r.Statements)
			totalRows += r.Rows
		}
		fmt.Fprintln(report, "--------------------------------------------------")
		fmt.Fprintf(report, "Total Rows: %d\n", totalRows)
		fmt.Fprintf(report, "Checksum (xxh3): %s (%d bytes)\n", out.Checksum(), out.written)
		log.Printf("Dump Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

// withTimeout bounds ctx by d. Zero or negative means no limit.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// dumpOptions builds the immutable dump configuration (Flag > Config > Default).
func dumpOptions() (dump.Options, error) {
	policy, err := schema.ParsePolicy(viper.GetString("settings.policy"))
	if err != nil {
		return dump.Options{}, fmt.Errorf("%w: %v", dump.ErrInvalidConfig, err)
	}
	opts := dump.Options{
		LockTables:   viper.GetBool("settings.lock_tables"),
		DropTables:   viper.GetBool("settings.drop_tables"),
		FilterTables: filterFromConfig(),
		InsertEvery:  viper.GetInt("settings.insert_every"),
		Policy:       policy,
	}
	if err := opts.Validate(); err != nil {
		return dump.Options{}, err
	}
	return opts, nil
}

// filterFromConfig applies the table filter strategy:
// 1. CLI flag --tables
// 2. If empty, config settings.tables
// 3. If both empty, every table is dumped.
func filterFromConfig() []string {
	if len(tables) > 0 {
		return tables
	}
	return viper.GetStringSlice("settings.tables")
}

func init() {
	RootCmd.AddCommand(dumpCmd)

	// CLI Flags
	dumpCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	dumpCmd.Flags().StringVar(&compression, "compress", "none", "Compress the output: none or zstd")
	dumpCmd.Flags().Int("insert-every", dump.DefaultInsertEvery, "Rows per INSERT statement")
	dumpCmd.Flags().Bool("lock-tables", true, "Wrap each table's data in LOCK TABLES / UNLOCK TABLES")
	dumpCmd.Flags().Bool("drop-tables", true, "Emit DROP TABLE IF EXISTS before each table")
	dumpCmd.Flags().Duration("timeout", 3*time.Hour, "Abandon the dump after this long (0 disables the limit)")

	viper.BindPFlag("settings.insert_every", dumpCmd.Flags().Lookup("insert-every"))
	viper.BindPFlag("settings.lock_tables", dumpCmd.Flags().Lookup("lock-tables"))
	viper.BindPFlag("settings.drop_tables", dumpCmd.Flags().Lookup("drop-tables"))
	viper.BindPFlag("settings.timeout", dumpCmd.Flags().Lookup("timeout"))
	viper.SetDefault("settings.insert_every", dump.DefaultInsertEvery)
	viper.SetDefault("settings.lock_tables", true)
	viper.SetDefault("settings.drop_tables", true)
	viper.SetDefault("settings.timeout", 3*time.Hour)
}
