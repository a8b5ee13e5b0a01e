package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

// renderFrame writes a frame in the configured output format. An empty
// format falls back to the config value, and "table" degrades to CSV when
// stdout is not a terminal.
func renderFrame(w io.Writer, f *frame.Frame, format string) error {
	if f == nil {
		_, _ = fmt.Fprintln(w, "(no data)")
		return nil
	}
	if format == "" {
		format = cfg.Output
	}

	switch format {
	case "json":
		return renderJSON(w, f)
	case "csv":
		return renderCSV(w, f)
	default:
		if !isTerminal(w) {
			return renderCSV(w, f)
		}
		renderTable(w, f)
		return nil
	}
}

func renderTable(w io.Writer, f *frame.Frame) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, f.ColumnCount())
	for i, col := range f.Columns() {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range f.Rows() {
		out := make(table.Row, len(row))
		for i, cell := range row {
			out[i] = formatCell(cell)
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", f.RowCount())
}

func renderCSV(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return err
	}
	record := make([]string, f.ColumnCount())
	for _, row := range f.Rows() {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderJSON(w io.Writer, f *frame.Frame) error {
	out := make([]map[string]any, 0, f.RowCount())
	for _, row := range f.Rows() {
		m := make(map[string]any, f.ColumnCount())
		for i, col := range f.Columns() {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func formatCell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
