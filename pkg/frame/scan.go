package frame

import (
	"database/sql"
	"fmt"
)

// Scan drains rows into a Frame. []byte cells are converted to string so
// that round-tripped text compares equal regardless of driver encoding.
// Scan does not close rows; the caller owns the cursor.
func Scan(rows *sql.Rows) (*Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		row, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return &Frame{columns: cols, rows: out}, nil
}

// ScanChunk reads at most limit rows from an open cursor into a Frame.
// It returns done=true once the cursor is exhausted; the final chunk before
// done may hold fewer than limit rows. ScanChunk does not close rows.
func ScanChunk(rows *sql.Rows, limit int) (f *Frame, done bool, err error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read result columns: %w", err)
	}

	out := make([][]any, 0, limit)
	for len(out) < limit {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, false, fmt.Errorf("error iterating result rows: %w", err)
			}
			return &Frame{columns: cols, rows: out}, true, nil
		}
		row, err := scanRow(rows, len(cols))
		if err != nil {
			return nil, false, err
		}
		out = append(out, row)
	}
	return &Frame{columns: cols, rows: out}, false, nil
}

func scanRow(rows *sql.Rows, width int) ([]any, error) {
	values := make([]any, width)
	ptrs := make([]any, width)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
