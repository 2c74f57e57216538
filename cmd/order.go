package cmd

import (
	"fmt"
	"log"
	"strings"

	"db-dump/internal/dialect"
	"db-dump/internal/dump"
	"db-dump/internal/schema"

	"github.com/spf13/cobra"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Show the order tables would be dumped in, without dumping",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := dumpOptions()
		if err != nil {
			return err
		}

		d := dialect.GetDialect(DriverName)
		log.Printf("Using Dialect: %s\n", DriverName)

		log.Println("Analyzing schema...")
		inspector := schema.NewInspector(DB, d, Host, SchemaName)
		plan, err := dump.MakePlan(cmd.Context(), inspector, opts)
		if err != nil {
			return err
		}

		fmt.Printf("🔍 Dump Order (%s policy):\n", opts.Policy)
		for i, t := range plan.Tables {
			fmt.Printf("[%02d] %s (Dependencies: %v)\n", i+1, t, plan.Graph[t])
		}
		if len(plan.Unresolved) > 0 {
			fmt.Println("--------------------------------------------------")
			fmt.Printf("⚠ Skipped %d tables:\n", len(plan.Unresolved))
			for _, u := range plan.Unresolved {
				fmt.Printf("  - %s: %s, waiting on %s\n", u.Table, u.Reason, strings.Join(u.Missing, ", "))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(orderCmd)
}
