// Package postgres registers the PostgreSQL driver for FerrySQL.
//
// Import this package with a blank identifier to make the "postgresql" and
// "postgres" db_types available:
//
//	import _ "github.com/leapstack-labs/ferrysql/pkg/drivers/postgres"
package postgres

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
	"github.com/leapstack-labs/ferrysql/pkg/dialect"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Dialect is the PostgreSQL dialect registered by this package.
var Dialect = &dialect.Dialect{
	Name:          "postgres",
	DefaultSchema: "public",
	Placeholder:   dialect.PlaceholderDollar,
	QuoteStart:    `"`,
	QuoteEnd:      `"`,
	QuoteEscape:   `""`,
	Types: map[dialect.Kind]string{
		dialect.KindText:      "TEXT",
		dialect.KindInteger:   "BIGINT",
		dialect.KindFloat:     "DOUBLE PRECISION",
		dialect.KindBool:      "BOOLEAN",
		dialect.KindTimestamp: "TIMESTAMPTZ",
		dialect.KindBytes:     "BYTEA",
	},
}

func init() {
	dialect.Register(Dialect)
	connector.RegisterDriver(&connector.Driver{
		Name:      "postgresql",
		Aliases:   []string{"postgres"},
		SQLDriver: "pgx",
		Dialect:   "postgres",
		DSN:       buildDSN,
	})
}

// buildDSN constructs a key=value PostgreSQL DSN from the config. The
// address may carry a port ("host:5432"); sslmode defaults to disable and is
// overridable through Options.
func buildDSN(cfg connector.Config) string {
	host := cfg.Address
	port := "5432"
	if h, p, ok := strings.Cut(cfg.Address, ":"); ok {
		host, port = h, p
	}
	if host == "" {
		host = "localhost"
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%s dbname=%s sslmode=%s", host, port, cfg.DBName, sslmode)
	if cfg.User != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.User)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return dsn
}
