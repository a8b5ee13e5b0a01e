// Package duckdb registers the DuckDB driver for FerrySQL.
//
// Import this package with a blank identifier to make the "duckdb" db_type
// available:
//
//	import _ "github.com/leapstack-labs/ferrysql/pkg/drivers/duckdb"
//
// DuckDB is file-backed: the config's db_name is the database path, and an
// empty db_name opens an in-memory database.
package duckdb

import (
	"github.com/leapstack-labs/ferrysql/pkg/connector"
	"github.com/leapstack-labs/ferrysql/pkg/dialect"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Dialect is the DuckDB dialect registered by this package.
var Dialect = &dialect.Dialect{
	Name:          "duckdb",
	DefaultSchema: "main",
	Placeholder:   dialect.PlaceholderQuestion,
	QuoteStart:    `"`,
	QuoteEnd:      `"`,
	QuoteEscape:   `""`,
	Types: map[dialect.Kind]string{
		dialect.KindText:      "VARCHAR",
		dialect.KindInteger:   "BIGINT",
		dialect.KindFloat:     "DOUBLE",
		dialect.KindBool:      "BOOLEAN",
		dialect.KindTimestamp: "TIMESTAMP",
		dialect.KindBytes:     "BLOB",
	},
}

func init() {
	dialect.Register(Dialect)
	connector.RegisterDriver(&connector.Driver{
		Name:      "duckdb",
		SQLDriver: "duckdb",
		Dialect:   "duckdb",
		DSN:       buildDSN,
	})
}

// buildDSN maps the config onto a DuckDB path. ":memory:" (or an empty
// db_name) opens an in-memory database.
func buildDSN(cfg connector.Config) string {
	if cfg.DBName == "" {
		return ""
	}
	if cfg.DBName == ":memory:" {
		return ""
	}
	return cfg.DBName
}
