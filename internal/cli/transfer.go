package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ferrysql/pkg/connector"
	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

func newLoadCmd() *cobra.Command {
	var ifExists string
	cmd := &cobra.Command{
		Use:   "load <table> <file.csv>",
		Short: "Load a CSV file into a table in chunks",
		Long: `Load reads a CSV file (header row required) into memory and writes it to
the named table through the chunked transfer path. All columns are written
as text; cast them in the backend if you need typed columns.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readCSVFrame(args[1])
			if err != nil {
				return err
			}

			con, err := newConnector()
			if err != nil {
				return err
			}
			defer func() { _ = con.Close() }()

			ok, err := con.SetFrame(cmd.Context(), args[0], f, connector.WriteOptions{
				IfExists:  connector.IfExists(ifExists),
				ChunkSize: cfg.Target.ChunkSize,
			})
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %s rows=%d cols=%d\n", args[0], f.RowCount(), f.ColumnCount())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ifExists, "if-exists", string(connector.IfExistsReplace),
		"existing-table policy: replace, append, fail")
	return cmd
}

func newDumpCmd() *cobra.Command {
	var chunkCount int
	cmd := &cobra.Command{
		Use:   "dump <table> [file.csv]",
		Short: "Dump a table to CSV (stdout by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConnector()
			if err != nil {
				return err
			}
			defer func() { _ = con.Close() }()

			f, err := con.GetFrame(cmd.Context(), args[0], connector.ReadOptions{
				ChunkCount: chunkCount,
			})
			if err != nil {
				return err
			}
			if f == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "table %s has no data\n", args[0])
				return nil
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 2 {
				out, err := os.Create(args[1])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[1], err)
				}
				defer func() { _ = out.Close() }()
				w = out
			}
			return renderCSV(w, f)
		},
	}
	cmd.Flags().IntVar(&chunkCount, "chunk-count", 0, "max chunks to fetch (0 = all)")
	return cmd
}

// readCSVFrame reads an entire CSV file into a frame of string cells.
func readCSVFrame(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]any
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row := make([]any, len(record))
		for i, v := range record {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return frame.New(header, rows)
}
