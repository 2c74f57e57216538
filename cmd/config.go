package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	activeConfig.Driver = detectDriver(activeConfig.Driver, activeConfig.DSN)
	return activeConfig, nil
}

// resolveDBConfig picks the connection: the active entry of the databases
// list when one is configured, otherwise the database.* keys (flags or env).
func resolveDBConfig() (*DBConfig, error) {
	config, err := GetActiveDBConfig()
	if err == nil {
		return config, nil
	}
	if viper.IsSet("databases") {
		return nil, err
	}

	connStr := viper.GetString("database.dsn")
	if connStr == "" {
		return nil, fmt.Errorf("database.dsn is required (via flag or config)")
	}
	return &DBConfig{
		Name:   "CLI",
		Driver: detectDriver(viper.GetString("database.driver"), connStr),
		DSN:    connStr,
		Schema: viper.GetString("database.schema"),
		Active: true,
	}, nil
}

// currentSchemaQuery asks the server which schema the login lands in, for
// drivers whose DSN carries it instead of a --schema flag.
func currentSchemaQuery(driver string) string {
	switch driver {
	case "mysql":
		return "SELECT DATABASE()"
	case "oracle":
		return "SELECT USER FROM DUAL"
	default:
		return ""
	}
}

// detectDriver picks the driver from an explicit setting or the DSN shape.
func detectDriver(explicit, connStr string) string {
	if explicit != "" {
		return explicit
	}
	switch {
	case strings.HasPrefix(connStr, "postgres://"), strings.HasPrefix(connStr, "postgresql://"), strings.Contains(connStr, "sslmode"):
		return "postgres"
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.HasPrefix(connStr, "file:"), strings.HasSuffix(connStr, ".db"), strings.HasSuffix(connStr, ".sqlite"):
		return "sqlite"
	default:
		return "mysql"
	}
}

// targetHost extracts the server address shown in the dump banner.
func targetHost(driver, connStr string) string {
	switch driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return ""
		}
		return cfg.Addr
	case "postgres":
		kv := connStr
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			parsed, err := pq.ParseURL(connStr)
			if err != nil {
				return ""
			}
			kv = parsed
		}
		return postgresHost(kv)
	case "sqlite":
		return strings.TrimPrefix(connStr, "file:")
	default:
		u, err := url.Parse(connStr)
		if err != nil {
			return ""
		}
		return u.Host
	}
}

// postgresHost reads host[:port] from a key=value connection string.
func postgresHost(kv string) string {
	var host, port string
	for _, field := range strings.Fields(kv) {
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		v = strings.Trim(v, "'")
		switch k {
		case "host":
			host = v
		case "port":
			port = v
		}
	}
	if host == "" {
		host = "localhost"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}
