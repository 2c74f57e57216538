package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"db-dump/internal/schema"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn        string
	driverFlag string
	schemaFlag string
	tables     []string
	DB         *sql.DB
	SchemaName string // database (MySQL) or schema dumped
	Host       string // printed in the dump banner
	cfgFile    string
	DriverName string // "mysql", "postgres", "sqlserver", "oracle" or "sqlite"
)

var RootCmd = &cobra.Command{
	Use:   "db-dump",
	Short: "Dump a database schema and its rows as SQL, parents before children",
	Long: `
  ____  ____    ____  _   _ __  __ ____
 |  _ \|  _ \  |  _ \| | | |  \/  |  _ \
 | | | | |_) | | | | | | | | |\/| | |_) |
 | |_| |  _ <  | |_| | |_| | |  | |  __/
 |____/|_| \_\ |____/ \___/|_|  |_|_|

DB DUMP - Foreign-key ordered SQL dumps
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configuration errors surface before any connection is made
		if _, err := dumpOptions(); err != nil {
			return err
		}

		config, err := resolveDBConfig()
		if err != nil {
			return err
		}
		DriverName = config.Driver

		DB, err = schema.Open(cmd.Context(), DriverName, config.DSN)
		if err != nil {
			return err
		}
		Host = targetHost(DriverName, config.DSN)

		// Fetch current database/schema name for the Inspector
		SchemaName = config.Schema
		if SchemaName == "" {
			SchemaName = viper.GetString("database.schema")
		}
		if q := currentSchemaQuery(DriverName); SchemaName == "" && q != "" {
			var current sql.NullString
			if err := DB.QueryRowContext(cmd.Context(), q).Scan(&current); err != nil {
				return &schema.QueryError{Op: "get database name", Err: err}
			}
			if current.String == "" {
				return fmt.Errorf("no database selected in DSN")
			}
			SchemaName = current.String
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			DB.Close()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-dump.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Driver: mysql, postgres, sqlserver, oracle or sqlite (detected from the DSN if empty)")
	RootCmd.PersistentFlags().StringVar(&schemaFlag, "schema", "", "Schema to dump (defaults to the DSN database, public, dbo or main)")

	RootCmd.PersistentFlags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to dump (comma-separated)")
	RootCmd.PersistentFlags().String("policy", string(schema.PolicyLegacy), "Unresolvable dependencies: legacy (skip after 5 passes) or strict (fail)")

	// Bind flags to viper
	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.schema", RootCmd.PersistentFlags().Lookup("schema"))
	viper.BindPFlag("settings.policy", RootCmd.PersistentFlags().Lookup("policy"))
	// Slice flags are not bound; precedence is handled in filterFromConfig.

	// Set default for Viper (fallback if no config/flag)
	viper.SetDefault("database.dsn", "root:root@tcp(127.0.0.1:3306)/sakila")
	viper.SetDefault("settings.policy", string(schema.PolicyLegacy))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-dump")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
