package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List base tables in the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			con, err := newConnector()
			if err != nil {
				return err
			}
			defer func() { _ = con.Close() }()

			f, err := con.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			return renderFrame(cmd.OutOrStdout(), f, format)
		},
	}
}

func newQueryCmd() *cobra.Command {
	var chunkCount int
	cmd := &cobra.Command{
		Use:   "query <sql|table>",
		Short: "Run a read query, or fetch a whole table with --table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConnector()
			if err != nil {
				return err
			}
			defer func() { _ = con.Close() }()

			asTable, _ := cmd.Flags().GetBool("table")
			f, err := fetch(cmd, con, args[0], asTable, chunkCount)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")
			return renderFrame(cmd.OutOrStdout(), f, format)
		},
	}
	cmd.Flags().Bool("table", false, "treat the argument as a table name")
	cmd.Flags().IntVar(&chunkCount, "chunk-count", 0, "max chunks to fetch (0 = all, table mode only)")
	return cmd
}

func fetch(cmd *cobra.Command, con *connector.Connector, target string, asTable bool, chunkCount int) (*frame.Frame, error) {
	if asTable {
		return con.GetFrame(cmd.Context(), target, connector.ReadOptions{
			ChunkCount: chunkCount,
		})
	}
	return con.QueryFrame(cmd.Context(), target)
}

func newExecCmd() *cobra.Command {
	var logQuery bool
	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Execute a statement and report rows affected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConnector()
			if err != nil {
				return err
			}
			defer func() { _ = con.Close() }()

			res, err := con.Execute(cmd.Context(), args[0], logQuery)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "(%d rows affected)\n", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&logQuery, "log", false, "log the statement text")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ferrysql %s (%s)\n", Version, GitCommit)
		},
	}
}
