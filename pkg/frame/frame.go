// Package frame provides the in-memory tabular representation moved by
// FerrySQL transfers: ordered rows with named columns and untyped cells.
//
// A Frame tracks no backend schema. Column types are inferred from cell
// values when a frame is written, and the backend is authoritative for
// types when a frame is read back.
package frame

import "fmt"

// Frame is an ordered sequence of rows with named columns.
// The zero value is not usable; construct frames with New or Scan.
type Frame struct {
	columns []string
	rows    [][]any
}

// New creates a Frame from column names and rows.
// Every row must have exactly one cell per column.
func New(columns []string, rows [][]any) (*Frame, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	return &Frame{columns: columns, rows: rows}, nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return f.columns
}

// Rows returns the underlying rows. Callers must not mutate the result.
func (f *Frame) Rows() [][]any {
	return f.rows
}

// Row returns row i.
func (f *Frame) Row(i int) []any {
	return f.rows[i]
}

// RowCount returns the number of rows.
func (f *Frame) RowCount() int {
	return len(f.rows)
}

// ColumnCount returns the number of columns.
func (f *Frame) ColumnCount() int {
	return len(f.columns)
}

// Size returns the total cell count (rows times columns).
// Chunk thresholds are measured against this value, not the row count.
func (f *Frame) Size() int {
	return len(f.rows) * len(f.columns)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.rows), len(f.columns)
}

// ShapeString formats the shape as "(rows, columns)" for log output.
func (f *Frame) ShapeString() string {
	return fmt.Sprintf("(%d, %d)", len(f.rows), len(f.columns))
}

// slice returns a frame over rows [lo, hi). The backing rows are shared.
func (f *Frame) slice(lo, hi int) *Frame {
	return &Frame{columns: f.columns, rows: f.rows[lo:hi]}
}

// Concat concatenates frames in order into a single frame. All frames must
// share the same column names in the same order. Concatenating zero frames
// is an error; callers that need to distinguish "no data" handle it before
// calling.
func Concat(frames []*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to concatenate")
	}

	first := frames[0]
	total := 0
	for i, f := range frames {
		if err := sameColumns(first.columns, f.columns); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		total += len(f.rows)
	}

	rows := make([][]any, 0, total)
	for _, f := range frames {
		rows = append(rows, f.rows...)
	}
	return &Frame{columns: first.columns, rows: rows}, nil
}

func sameColumns(a, b []string) error {
	if len(a) != len(b) {
		return fmt.Errorf("column count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("column %d mismatch: %q vs %q", i, a[i], b[i])
		}
	}
	return nil
}
