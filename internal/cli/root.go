// Package cli provides the command-line interface for FerrySQL.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ferrysql/internal/config"
	"github.com/leapstack-labs/ferrysql/pkg/connector"

	_ "github.com/leapstack-labs/ferrysql/pkg/drivers/duckdb"
	_ "github.com/leapstack-labs/ferrysql/pkg/drivers/postgres"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ferrysql",
		Short: "FerrySQL - chunked table transfer for relational stores",
		Long: `FerrySQL moves tabular data between files and a relational backend in
bounded-size chunks, so large tables never have to fit through the database
driver in one piece.

Connection settings come from ferrysql.yaml, FERRYSQL_* environment
variables, or the target flags below.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger = newLogger(cfg.Verbose)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: ferrysql.yaml)")
	flags.String("db-type", "", "backend type (duckdb, postgresql, ...)")
	flags.String("address", "", "backend host[:port]")
	flags.String("user", "", "backend user")
	flags.String("password", "", "backend password")
	flags.String("db-name", "", "database name (or path for duckdb)")
	flags.String("driver", "", "ODBC driver name (odbc db_types only)")
	flags.Int("chunk-size", 0, "transfer chunk size in cells")
	flags.Bool("verbose", false, "enable debug logging")
	flags.StringP("output", "o", "", "output format: table, csv, json")

	rootCmd.AddCommand(
		newTablesCmd(),
		newQueryCmd(),
		newExecCmd(),
		newLoadCmd(),
		newDumpCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newConnector builds a connector from the loaded target config.
func newConnector() (*connector.Connector, error) {
	return connector.New(cfg.Target.ConnectorConfig(), logger)
}
