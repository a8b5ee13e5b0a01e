package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/ferrysql/pkg/dialect"
	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

// writeFrame writes one frame (a whole table or one chunk of it) to the
// destination, resolving the table per mode before inserting.
func (c *Connector) writeFrame(ctx context.Context, name string, f *frame.Frame, mode IfExists, batchRows int) error {
	if err := c.prepareDestination(ctx, name, f, mode); err != nil {
		return err
	}
	if f.RowCount() == 0 {
		return nil
	}
	return c.insertRows(ctx, name, f, batchRows)
}

// prepareDestination brings the destination table into the state the mode
// requires. DDL is derived from the frame's inferred column kinds; the
// backend remains authoritative for types once the table exists.
func (c *Connector) prepareDestination(ctx context.Context, name string, f *frame.Frame, mode IfExists) error {
	d := c.engine.Dialect()
	db := c.engine.DB()

	switch mode {
	case IfExistsReplace:
		drop := "DROP TABLE IF EXISTS " + quoteTable(d, name)
		if _, err := db.ExecContext(ctx, drop); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, createTableSQL(d, name, f, false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	case IfExistsAppend:
		if _, err := db.ExecContext(ctx, createTableSQL(d, name, f, true)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	case IfExistsFail:
		exists, err := c.tableExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return &TableExistsError{Table: name}
		}
		if _, err := db.ExecContext(ctx, createTableSQL(d, name, f, false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	default:
		return fmt.Errorf("invalid if_exists mode %q", mode)
	}
	return nil
}

// tableExists checks the backend catalog for the (schema-qualified) name.
func (c *Connector) tableExists(ctx context.Context, name string) (bool, error) {
	d := c.engine.Dialect()
	schema, table := splitQualified(name, d.DefaultSchema)

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = %s AND table_name = %s",
		d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	var n int64
	if err := c.engine.DB().QueryRowContext(ctx, query, schema, table).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return n > 0, nil
}

// insertRows executes the chunk's inserts, consulting the engine's exec
// hooks to decide between multi-row batches and a per-row prepared
// statement.
func (c *Connector) insertRows(ctx context.Context, name string, f *frame.Frame, batchRows int) error {
	d := c.engine.Dialect()

	stmt := Stmt{
		SQL:   insertSQL(d, name, f.Columns(), 1),
		Batch: f.RowCount() > 1,
	}
	c.engine.applyHooks(&stmt)

	if stmt.Batch && stmt.FastBulk {
		return c.insertBatched(ctx, name, f, batchRows)
	}
	return c.insertPrepared(ctx, stmt.SQL, f)
}

// insertBatched folds up to batchRows rows into each INSERT statement.
func (c *Connector) insertBatched(ctx context.Context, name string, f *frame.Frame, batchRows int) error {
	d := c.engine.Dialect()
	cols := f.Columns()
	rows := f.Rows()

	for lo := 0; lo < len(rows); lo += batchRows {
		hi := lo + batchRows
		if hi > len(rows) {
			hi = len(rows)
		}
		batch := rows[lo:hi]

		args := make([]any, 0, len(batch)*len(cols))
		for _, row := range batch {
			args = append(args, row...)
		}

		query := insertSQL(d, name, cols, len(batch))
		if _, err := c.engine.DB().ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", name, err)
		}
	}
	return nil
}

// insertPrepared executes one prepared single-row insert per row.
func (c *Connector) insertPrepared(ctx context.Context, query string, f *frame.Frame) error {
	stmt, err := c.engine.DB().PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range f.Rows() {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return nil
}

// insertSQL builds an INSERT with rowCount value tuples.
func insertSQL(d *dialect.Dialect, name string, cols []string, rowCount int) string {
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = d.QuoteIdentifier(col)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(quoteTable(d, name))
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES ")

	idx := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for i := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.FormatPlaceholder(idx))
			idx++
		}
		b.WriteString(")")
	}
	return b.String()
}

// createTableSQL builds CREATE TABLE DDL from the frame's inferred kinds.
func createTableSQL(d *dialect.Dialect, name string, f *frame.Frame, ifNotExists bool) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(quoteTable(d, name))
	b.WriteString(" (")
	for i, col := range f.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.QuoteIdentifier(col))
		b.WriteString(" ")
		b.WriteString(d.TypeName(columnKind(f, i)))
	}
	b.WriteString(")")
	return b.String()
}

// columnKind infers a column's kind from its first non-nil cell.
func columnKind(f *frame.Frame, col int) dialect.Kind {
	for _, row := range f.Rows() {
		if row[col] == nil {
			continue
		}
		return kindOf(row[col])
	}
	return dialect.KindText
}

func kindOf(v any) dialect.Kind {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return dialect.KindInteger
	case float32, float64:
		return dialect.KindFloat
	case bool:
		return dialect.KindBool
	case time.Time:
		return dialect.KindTimestamp
	case []byte:
		return dialect.KindBytes
	default:
		return dialect.KindText
	}
}

// quoteTable quotes a possibly schema-qualified table name part by part.
func quoteTable(d *dialect.Dialect, name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// splitQualified splits "schema.table" into its parts, applying the default
// schema when the name is unqualified.
func splitQualified(name, defaultSchema string) (schema, table string) {
	if parts := strings.Split(name, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, name
}
