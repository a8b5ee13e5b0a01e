// Package dialect provides the minimal SQL dialect configuration FerrySQL
// needs to generate portable DDL and parameterized inserts: identifier
// quoting, parameter placeholder style, default schema, and the mapping from
// inferred Go cell kinds to backend column types.
//
// Concrete dialects are registered from pkg/drivers/*/ packages.
package dialect

import (
	"strconv"
	"strings"
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, ... (PostgreSQL).
	PlaceholderDollar
)

// Kind classifies a frame cell value for column type mapping.
type Kind int

const (
	// KindText is the fallback for strings and unrecognized values.
	KindText Kind = iota
	// KindInteger covers Go integer cells.
	KindInteger
	// KindFloat covers Go float cells.
	KindFloat
	// KindBool covers Go bool cells.
	KindBool
	// KindTimestamp covers time.Time cells.
	KindTimestamp
	// KindBytes covers raw []byte cells.
	KindBytes
)

// Dialect holds the static configuration for one SQL dialect.
type Dialect struct {
	// Name is the dialect identifier (e.g., "postgres", "duckdb").
	Name string

	// DefaultSchema is the schema unqualified table names resolve to
	// ("public" for Postgres, "main" for DuckDB).
	DefaultSchema string

	// Placeholder defines how query parameters are formatted.
	Placeholder PlaceholderStyle

	// QuoteStart, QuoteEnd and QuoteEscape define identifier quoting.
	// QuoteEscape replaces occurrences of QuoteEnd inside a name.
	QuoteStart, QuoteEnd, QuoteEscape string

	// Types maps cell kinds to column type names for generated DDL.
	Types map[Kind]string
}

// FormatPlaceholder returns a placeholder for the given parameter index
// (1-based): "?" for PlaceholderQuestion, "$1", "$2", ... for
// PlaceholderDollar.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default:
		return "?"
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters,
// escaping any embedded quote end characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.QuoteEnd, d.QuoteEscape)
	return d.QuoteStart + escaped + d.QuoteEnd
}

// TypeName returns the column type for a cell kind, falling back to the
// KindText mapping (and to TEXT when the dialect omits even that).
func (d *Dialect) TypeName(k Kind) string {
	if t, ok := d.Types[k]; ok {
		return t
	}
	if t, ok := d.Types[KindText]; ok {
		return t
	}
	return "TEXT"
}
